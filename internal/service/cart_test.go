package service

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"orderbot/internal/domain"
	"orderbot/internal/repository/filestore"
	"orderbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFileCartService(t *testing.T) *CartService {
	t.Helper()
	store, err := filestore.Open(filepath.Join(t.TempDir(), "data"), testutil.NewTestLogger())
	require.NoError(t, err)
	return NewCartService(filestore.NewCartRepo(store), testutil.NewTestCatalog(t), testutil.NewTestLogger())
}

func TestCartService_AddItemPreservesOrder(t *testing.T) {
	service := newFileCartService(t)

	added := []string{"minestrone", "borscht", "minestrone"}
	for _, item := range added {
		require.NoError(t, service.AddItem("alice", "soups", item))
	}
	require.NoError(t, service.AddItem("alice", "desserts", "cheesecake"))

	items, err := service.Items("alice")
	require.NoError(t, err)
	assert.Equal(t, append(added, "cheesecake"), items)
}

func TestCartService_AddItemValidation(t *testing.T) {
	tests := []struct {
		name     string
		category string
		item     string
		expected error
	}{
		{name: "unknown category", category: "drinks", item: "tea", expected: domain.ErrUnknownCategory},
		{name: "item from other category", category: "soups", item: "cheesecake", expected: domain.ErrUnknownItem},
		{name: "unknown item", category: "soups", item: "ukha", expected: domain.ErrUnknownItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockCartRepository)
			service := NewCartService(mockRepo, testutil.NewTestCatalog(t), testutil.NewTestLogger())

			err := service.AddItem("alice", tt.category, tt.item)

			assert.ErrorIs(t, err, tt.expected)
			mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestCartService_AddItemPersistenceFailure(t *testing.T) {
	mockRepo := new(testutil.MockCartRepository)
	mockRepo.On("Append", "alice", "borscht").Return(fmt.Errorf("disk full"))

	service := NewCartService(mockRepo, testutil.NewTestCatalog(t), testutil.NewTestLogger())
	err := service.AddItem("alice", "soups", "borscht")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	mockRepo.AssertExpectations(t)
}

func TestCartService_Submit(t *testing.T) {
	service := newFileCartService(t)

	require.NoError(t, service.AddItem("alice", "soups", "borscht"))
	require.NoError(t, service.AddItem("alice", "soups", "minestrone"))

	items, err := service.Submit("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"borscht", "minestrone"}, items)

	remaining, err := service.Items("alice")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = service.Submit("alice")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCartService_SubmitPersistenceFailure(t *testing.T) {
	mockRepo := new(testutil.MockCartRepository)
	mockRepo.On("Drain", "alice").Return(nil, fmt.Errorf("db error"))

	service := NewCartService(mockRepo, testutil.NewTestCatalog(t), testutil.NewTestLogger())
	items, err := service.Submit("alice")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Nil(t, items)
	mockRepo.AssertExpectations(t)
}

func TestCartService_ClearThenCartViewIsEmpty(t *testing.T) {
	service := newFileCartService(t)
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	require.NoError(t, service.AddItem("alice", "soups", "borscht"))
	require.NoError(t, service.Clear("alice"))

	items, err := service.Items("alice")
	require.NoError(t, err)
	assert.Equal(t, TextCartEmpty, nav.CartView(items).Text)
}

func TestCartService_SoupsScenario(t *testing.T) {
	service := newFileCartService(t)
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	require.NoError(t, service.AddItem("alice", "soups", "borscht"))
	require.NoError(t, service.AddItem("alice", "soups", "minestrone"))

	items, err := service.Items("alice")
	require.NoError(t, err)
	assert.Equal(t, "🧺 Ваша корзина:\nborscht\nminestrone", nav.CartView(items).Text)

	submitted, err := service.Submit("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"borscht", "minestrone"}, submitted)

	items, err = service.Items("alice")
	require.NoError(t, err)
	assert.Equal(t, TextCartEmpty, nav.CartView(items).Text)
}

func TestCartService_ConcurrentAddAndSubmit(t *testing.T) {
	service := newFileCartService(t)

	const adds = 40
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		submitted int
	)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, service.AddItem("alice", "soups", "borscht"))
		}()
		if i%10 == 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				items, err := service.Submit("alice")
				if err != nil {
					assert.ErrorIs(t, err, domain.ErrEmptyCart)
					return
				}
				mu.Lock()
				submitted += len(items)
				mu.Unlock()
			}()
		}
	}
	wg.Wait()

	remaining, err := service.Items("alice")
	require.NoError(t, err)
	assert.Equal(t, adds, submitted+len(remaining))
}
