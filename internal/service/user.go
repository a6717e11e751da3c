package service

import (
	"fmt"

	"orderbot/internal/domain"
	"orderbot/internal/repository"

	"go.uber.org/zap"
)

// UserService handles the user registry and administrator lookup
type UserService struct {
	userRepo      repository.UserRepository
	adminUsername string
	logger        *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, adminUsername string, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:      userRepo,
		adminUsername: adminUsername,
		logger:        logger,
	}
}

// Register creates or updates the user record.
// Users without a username cannot be looked up by handle and are not stored.
func (s *UserService) Register(user domain.User) error {
	if user.Username == "" {
		s.logger.Debug("Skipping registration of user without username", zap.Int64("chat_id", user.ChatID))
		return nil
	}
	if err := s.userRepo.SaveUser(user); err != nil {
		return fmt.Errorf("save user: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// IsAdmin reports whether username is the configured administrator
func (s *UserService) IsAdmin(username string) bool {
	return username != "" && username == s.adminUsername
}

// ChatID resolves an owner key to a chat ID
func (s *UserService) ChatID(key string) (int64, bool, error) {
	if id, ok := domain.ChatIDFromKey(key); ok {
		return id, true, nil
	}
	id, ok, err := s.userRepo.ChatID(key)
	if err != nil {
		return 0, false, fmt.Errorf("lookup user: %w: %w", domain.ErrPersistence, err)
	}
	return id, ok, nil
}

// AdminUsername returns the configured administrator handle
func (s *UserService) AdminUsername() string {
	return s.adminUsername
}

// AdminChatID resolves the administrator's chat ID, if registered
func (s *UserService) AdminChatID() (int64, bool, error) {
	return s.ChatID(s.adminUsername)
}
