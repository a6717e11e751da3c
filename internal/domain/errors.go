package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownItem     = errors.New("unknown item")
	ErrUnknownAction   = errors.New("unknown action")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPersistence     = errors.New("persistence failure")
)

// DeliveryError reports a failed outbound message to a single recipient
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
