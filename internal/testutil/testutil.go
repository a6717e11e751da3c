package testutil

import (
	"testing"

	"orderbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestCatalog creates a small catalog: soups (borscht, minestrone) and desserts (cheesecake)
func NewTestCatalog(tb testing.TB) *domain.Catalog {
	tb.Helper()
	catalog, err := domain.NewCatalog([]domain.Category{
		{Key: "soups", Title: "Супы", Items: []string{"borscht", "minestrone"}},
		{Key: "desserts", Title: "Десерты", Items: []string{"cheesecake"}},
	})
	if err != nil {
		tb.Fatalf("failed to build test catalog: %v", err)
	}
	return catalog
}

// NewTestUser creates a test user
func NewTestUser(username string, chatID int64) domain.User {
	return domain.User{
		Username: username,
		ChatID:   chatID,
	}
}
