package filestore

// CartRepo implements repository.CartRepository
type CartRepo struct {
	carts *recordSet[[]string]
}

// NewCartRepo creates a new cart repository
func NewCartRepo(s *Store) *CartRepo {
	return &CartRepo{carts: newRecordSet[[]string](s, cartsFile)}
}

// Items returns the owner's cart in insertion order
func (r *CartRepo) Items(owner string) ([]string, error) {
	var items []string
	r.carts.view(func(carts map[string][]string) {
		items = carts[owner]
	})
	return items, nil
}

// Append adds an item to the end of the owner's cart
func (r *CartRepo) Append(owner, item string) error {
	return r.carts.update(func(carts map[string][]string) bool {
		carts[owner] = append(carts[owner], item)
		return true
	})
}

// Clear empties the owner's cart
func (r *CartRepo) Clear(owner string) error {
	return r.carts.update(func(carts map[string][]string) bool {
		if _, ok := carts[owner]; !ok {
			return false
		}
		delete(carts, owner)
		return true
	})
}

// Drain returns and removes the owner's cart under a single lock and write
func (r *CartRepo) Drain(owner string) ([]string, error) {
	var items []string
	err := r.carts.update(func(carts map[string][]string) bool {
		items = carts[owner]
		if len(items) == 0 {
			return false
		}
		delete(carts, owner)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
