package domain

import "fmt"

// RequestKind identifies a free-form request relayed to the administrator
type RequestKind string

const (
	RequestShopping RequestKind = "shopping"
	RequestSurprise RequestKind = "surprise"
)

// RequestKinds lists every kind in a stable order
var RequestKinds = []RequestKind{RequestShopping, RequestSurprise}

// ParseRequestKind validates a stored kind
func ParseRequestKind(s string) (RequestKind, error) {
	switch RequestKind(s) {
	case RequestShopping, RequestSurprise:
		return RequestKind(s), nil
	}
	return "", fmt.Errorf("invalid request kind %q", s)
}

// Description returns the phrase used in admin notifications
func (k RequestKind) Description() string {
	switch k {
	case RequestShopping:
		return "список покупок"
	case RequestSurprise:
		return "сюрприз"
	}
	return string(k)
}

// PendingRequest is an unanswered request awaiting an administrator reply
type PendingRequest struct {
	Kind      RequestKind
	Requester string
}
