package domain

import (
	"strconv"
	"strings"
)

// User represents a registered bot user
type User struct {
	Username string
	ChatID   int64
}

// Key returns the owner key used for carts and pending requests
func (u User) Key() string {
	return UserKey(u.Username, u.ChatID)
}

// UserKey returns username, or "#<chatID>" for users without a public handle.
// Telegram usernames never contain '#', so the two forms cannot collide.
func UserKey(username string, chatID int64) string {
	if username != "" {
		return username
	}
	return "#" + strconv.FormatInt(chatID, 10)
}

// ChatIDFromKey extracts the chat ID from a "#<chatID>" key
func ChatIDFromKey(key string) (int64, bool) {
	if !strings.HasPrefix(key, "#") {
		return 0, false
	}
	id, err := strconv.ParseInt(key[1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Mention renders an owner key for messages to the administrator
func Mention(key string) string {
	if strings.HasPrefix(key, "#") {
		return "пользователь " + key
	}
	return "@" + key
}
