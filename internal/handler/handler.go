package handler

import (
	"strings"

	"orderbot/internal/domain"
	"orderbot/internal/middleware"
	"orderbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// User-facing texts
const (
	textGreeting       = "Привет, %s! Чем я могу тебе помочь?"
	textHelp           = "/start - запустить бот\n/help - помощь"
	textFailure        = "Произошла ошибка. Попробуйте позже."
	textAdminOnly      = "❌ Только админ может использовать эту команду."
	textReplySent      = "Ответ отправлен: %d"
	textItemAdded      = "✅ %s добавлено в корзину"
	textCartCleared    = "Корзина очищена."
	textCartEmpty      = "Корзина пуста."
	textOrderSent      = "🧾 Заказ оформлен."
	textShoppingSent   = "✅ Запрос отправлен администратору. Ожидайте ответа."
	textSurpriseSent   = "🎁 Ждите сюрприз в течение 24 часов"
	textUnknownItem    = "Такого блюда нет в меню"
	textUnknownSection = "Такого раздела нет в меню"
)

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	users    *service.UserService
	nav      *service.NavigationService
	carts    *service.CartService
	requests *service.RequestService
	logger   *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	users *service.UserService,
	nav *service.NavigationService,
	carts *service.CartService,
	requests *service.RequestService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:      bot,
		users:    users,
		nav:      nav,
		carts:    carts,
		requests: requests,
		logger:   logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Middleware must be installed before the handlers it wraps
	h.bot.Use(
		middleware.Recover(h.logger),
		middleware.Logging(h.logger),
		middleware.RequireSender(h.logger),
	)

	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/help", h.handleHelp)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Every inline button carries an action token, so one handler serves them all
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// ownerKey returns the key the sender's cart and requests are stored under
func ownerKey(c tele.Context) string {
	sender := c.Sender()
	return domain.UserKey(sender.Username, sender.ID)
}

// renderMarkup converts a view's actions into an inline keyboard
func renderMarkup(view domain.View) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(view.Rows))
	for _, row := range view.Rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, markup.Data(b.Label, b.Action.Unique(), b.Action.Payload()...))
		}
		rows = append(rows, markup.Row(buttons...))
	}
	markup.Inline(rows...)
	return markup
}

// show edits the message behind a callback, or sends a new one otherwise
func (h *Handler) show(c tele.Context, view domain.View) error {
	markup := renderMarkup(view)
	if c.Callback() == nil {
		return c.Send(view.Text, markup)
	}

	if err := c.Edit(view.Text, markup); err != nil {
		if handleErr := h.handleEditError(err, c); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(view.Text, markup)
	}
	return c.Respond()
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already shows this view, acknowledging",
			zap.Int64("user_id", c.Sender().ID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", c.Sender().ID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// fail reports an internal error to the user
func (h *Handler) fail(c tele.Context, msg string, err error) error {
	h.logger.Error(msg,
		zap.Error(err),
		zap.Int64("user_id", c.Sender().ID),
	)
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: textFailure, ShowAlert: true})
	}
	return c.Send(textFailure)
}
