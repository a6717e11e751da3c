package handler

import (
	"fmt"

	"orderbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()

	h.logger.Info("User started bot",
		zap.Int64("user_id", sender.ID),
		zap.String("username", sender.Username),
	)

	// Refresh the chat ID so replies and notifications can reach the user
	if err := h.users.Register(domain.User{Username: sender.Username, ChatID: sender.ID}); err != nil {
		return h.fail(c, "Failed to register user", err)
	}

	name := sender.FirstName
	if name == "" {
		name = sender.Username
	}
	menu := h.nav.MainMenu()
	return c.Send(fmt.Sprintf(textGreeting, name), renderMarkup(menu))
}

// handleHelp handles /help command
func (h *Handler) handleHelp(c tele.Context) error {
	return c.Send(textHelp)
}
