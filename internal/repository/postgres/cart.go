package postgres

import (
	"github.com/jmoiron/sqlx"
)

// CartRepo implements repository.CartRepository
type CartRepo struct {
	db *sqlx.DB
}

// NewCartRepo creates a new cart repository
func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{db: db}
}

// Items returns the owner's cart in insertion order
func (r *CartRepo) Items(owner string) ([]string, error) {
	var items []string
	query := `SELECT item FROM cart_items WHERE owner = $1 ORDER BY id`
	if err := r.db.Select(&items, query, owner); err != nil {
		return nil, err
	}
	return items, nil
}

// Append adds an item to the end of the owner's cart
func (r *CartRepo) Append(owner, item string) error {
	query := `INSERT INTO cart_items (owner, item) VALUES ($1, $2)`
	_, err := r.db.Exec(query, owner, item)
	return err
}

// Clear empties the owner's cart
func (r *CartRepo) Clear(owner string) error {
	query := `DELETE FROM cart_items WHERE owner = $1`
	_, err := r.db.Exec(query, owner)
	return err
}

// Drain deletes the owner's cart and returns what was deleted.
// A single statement, so the snapshot is exactly what was removed.
func (r *CartRepo) Drain(owner string) ([]string, error) {
	var items []string
	query := `
		WITH drained AS (
			DELETE FROM cart_items
			WHERE owner = $1
			RETURNING id, item
		)
		SELECT item FROM drained ORDER BY id
	`
	if err := r.db.Select(&items, query, owner); err != nil {
		return nil, err
	}
	return items, nil
}
