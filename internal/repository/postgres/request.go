package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"orderbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// RequestRepo implements repository.RequestRepository
type RequestRepo struct {
	db *sqlx.DB
}

// NewRequestRepo creates a new pending request repository
func NewRequestRepo(db *sqlx.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

type pendingRow struct {
	Kind      string `db:"kind"`
	Requester string `db:"requester"`
}

// SetPending overwrites the requester for kind and returns the displaced one
func (r *RequestRepo) SetPending(kind domain.RequestKind, requester string) (string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var previous string
	err = tx.Get(&previous, `SELECT requester FROM pending_requests WHERE kind = $1 FOR UPDATE`, string(kind))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	query := `
		INSERT INTO pending_requests (kind, requester)
		VALUES ($1, $2)
		ON CONFLICT (kind)
		DO UPDATE SET requester = EXCLUDED.requester, created_at = NOW()
	`
	if _, err := tx.Exec(query, string(kind), requester); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return previous, nil
}

// Pending returns the pending requests ordered by kind
func (r *RequestRepo) Pending() ([]domain.PendingRequest, error) {
	var rows []pendingRow
	query := `SELECT kind, requester FROM pending_requests ORDER BY kind`
	if err := r.db.Select(&rows, query); err != nil {
		return nil, err
	}

	pending := make([]domain.PendingRequest, 0, len(rows))
	for _, row := range rows {
		kind, err := domain.ParseRequestKind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("pending request: %w", err)
		}
		pending = append(pending, domain.PendingRequest{Kind: kind, Requester: row.Requester})
	}
	return pending, nil
}

// ClearPending drops every pending request in one statement
func (r *RequestRepo) ClearPending() error {
	_, err := r.db.Exec(`DELETE FROM pending_requests`)
	return err
}
