package testutil

import (
	"orderbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(user domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) ChatID(username string) (int64, bool, error) {
	args := m.Called(username)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

// MockCartRepository is a mock for CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Items(owner string) ([]string, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCartRepository) Append(owner, item string) error {
	args := m.Called(owner, item)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(owner string) error {
	args := m.Called(owner)
	return args.Error(0)
}

func (m *MockCartRepository) Drain(owner string) ([]string, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockRequestRepository is a mock for RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) SetPending(kind domain.RequestKind, requester string) (string, error) {
	args := m.Called(kind, requester)
	return args.String(0), args.Error(1)
}

func (m *MockRequestRepository) Pending() ([]domain.PendingRequest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingRequest), args.Error(1)
}

func (m *MockRequestRepository) ClearPending() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessenger is a mock for service.Messenger
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) Send(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}
