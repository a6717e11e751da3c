package filestore

import (
	"orderbot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	users *recordSet[int64]
}

// NewUserRepo creates a new user repository
func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{users: newRecordSet[int64](s, usersFile)}
}

// SaveUser creates or overwrites the user's chat ID
func (r *UserRepo) SaveUser(user domain.User) error {
	return r.users.update(func(users map[string]int64) bool {
		if id, ok := users[user.Username]; ok && id == user.ChatID {
			return false
		}
		users[user.Username] = user.ChatID
		return true
	})
}

// ChatID looks up a registered user's chat ID
func (r *UserRepo) ChatID(username string) (int64, bool, error) {
	var (
		id int64
		ok bool
	)
	r.users.view(func(users map[string]int64) {
		id, ok = users[username]
	})
	return id, ok, nil
}
