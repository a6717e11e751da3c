package handler

import (
	"errors"
	"fmt"
	"strings"

	"orderbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText treats free text as an administrator reply to the pending requests
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}

	sender := c.Sender()
	report, err := h.requests.RouteAdminReply(sender.Username, text)
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		h.logger.Debug("Ignoring free text from non-admin",
			zap.Int64("user_id", sender.ID),
			zap.String("username", sender.Username),
		)
		return c.Send(textAdminOnly)
	case err != nil:
		return h.fail(c, "Failed to route administrator reply", err)
	}

	return c.Send(fmt.Sprintf(textReplySent, len(report.Delivered)))
}
