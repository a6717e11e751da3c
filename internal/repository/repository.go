package repository

import (
	"orderbot/internal/domain"
)

// UserRepository defines user registry operations
type UserRepository interface {
	SaveUser(user domain.User) error
	ChatID(username string) (int64, bool, error)
}

// CartRepository defines cart operations keyed by owner
type CartRepository interface {
	Items(owner string) ([]string, error)
	Append(owner, item string) error
	Clear(owner string) error
	// Drain returns the cart contents and empties it in one atomic step
	Drain(owner string) ([]string, error)
}

// RequestRepository defines pending request operations
type RequestRepository interface {
	// SetPending overwrites the slot for kind and returns the displaced requester, if any
	SetPending(kind domain.RequestKind, requester string) (string, error)
	Pending() ([]domain.PendingRequest, error)
	ClearPending() error
}
