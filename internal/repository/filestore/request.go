package filestore

import (
	"orderbot/internal/domain"

	"go.uber.org/zap"
)

// RequestRepo implements repository.RequestRepository
type RequestRepo struct {
	requests *recordSet[string]
}

// NewRequestRepo creates a new pending request repository
func NewRequestRepo(s *Store) *RequestRepo {
	return &RequestRepo{requests: newRecordSet[string](s, requestsFile)}
}

// SetPending overwrites the requester for kind
func (r *RequestRepo) SetPending(kind domain.RequestKind, requester string) (string, error) {
	var previous string
	err := r.requests.update(func(requests map[string]string) bool {
		previous = requests[string(kind)]
		requests[string(kind)] = requester
		return true
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

// Pending returns the pending requests ordered by kind
func (r *RequestRepo) Pending() ([]domain.PendingRequest, error) {
	var pending []domain.PendingRequest
	r.requests.view(func(requests map[string]string) {
		for key := range requests {
			if _, err := domain.ParseRequestKind(key); err != nil {
				r.requests.logger.Warn("Ignoring unknown request kind", zap.String("kind", key))
			}
		}
		for _, kind := range domain.RequestKinds {
			if requester, ok := requests[string(kind)]; ok && requester != "" {
				pending = append(pending, domain.PendingRequest{Kind: kind, Requester: requester})
			}
		}
	})
	return pending, nil
}

// ClearPending drops every pending request in one write
func (r *RequestRepo) ClearPending() error {
	return r.requests.update(func(requests map[string]string) bool {
		if len(requests) == 0 {
			return false
		}
		for key := range requests {
			delete(requests, key)
		}
		return true
	})
}
