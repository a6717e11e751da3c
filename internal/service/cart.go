package service

import (
	"fmt"

	"orderbot/internal/domain"
	"orderbot/internal/repository"

	"go.uber.org/zap"
)

// CartService handles cart mutations. Operations on the same owner are serialized.
type CartService struct {
	cartRepo repository.CartRepository
	catalog  *domain.Catalog
	locks    *keyedMutex
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo repository.CartRepository, catalog *domain.Catalog, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		locks:    newKeyedMutex(),
		logger:   logger,
	}
}

// AddItem appends a catalog item to the owner's cart
func (s *CartService) AddItem(owner, categoryKey, item string) error {
	cat, ok := s.catalog.Category(categoryKey)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, categoryKey)
	}
	if !cat.HasItem(item) {
		return fmt.Errorf("%w: %q in %q", domain.ErrUnknownItem, item, categoryKey)
	}

	unlock := s.locks.Lock(owner)
	defer unlock()

	if err := s.cartRepo.Append(owner, item); err != nil {
		return fmt.Errorf("append to cart: %w: %w", domain.ErrPersistence, err)
	}

	s.logger.Debug("Item added to cart",
		zap.String("owner", owner),
		zap.String("category", categoryKey),
		zap.String("item", item),
	)
	return nil
}

// Items returns the owner's cart
func (s *CartService) Items(owner string) ([]string, error) {
	items, err := s.cartRepo.Items(owner)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w: %w", domain.ErrPersistence, err)
	}
	return items, nil
}

// Clear empties the owner's cart
func (s *CartService) Clear(owner string) error {
	unlock := s.locks.Lock(owner)
	defer unlock()

	if err := s.cartRepo.Clear(owner); err != nil {
		return fmt.Errorf("clear cart: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

// Submit drains the cart and returns exactly the items that were removed
func (s *CartService) Submit(owner string) ([]string, error) {
	unlock := s.locks.Lock(owner)
	defer unlock()

	items, err := s.cartRepo.Drain(owner)
	if err != nil {
		return nil, fmt.Errorf("drain cart: %w: %w", domain.ErrPersistence, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	s.logger.Info("Cart submitted",
		zap.String("owner", owner),
		zap.Int("items", len(items)),
	)
	return items, nil
}
