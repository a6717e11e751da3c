package postgres

import (
	"database/sql"
	"errors"

	"orderbot/internal/domain"

	"github.com/jmoiron/sqlx"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// SaveUser creates the user or overwrites its chat ID
func (r *UserRepo) SaveUser(user domain.User) error {
	query := `
		INSERT INTO users (username, chat_id)
		VALUES ($1, $2)
		ON CONFLICT (username)
		DO UPDATE SET chat_id = EXCLUDED.chat_id, updated_at = NOW()
	`
	_, err := r.db.Exec(query, user.Username, user.ChatID)
	return err
}

// ChatID looks up a registered user's chat ID
func (r *UserRepo) ChatID(username string) (int64, bool, error) {
	var chatID int64
	query := `SELECT chat_id FROM users WHERE username = $1`
	err := r.db.Get(&chatID, query, username)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return chatID, true, nil
}
