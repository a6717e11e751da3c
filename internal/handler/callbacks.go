package handler

import (
	"errors"
	"fmt"

	"orderbot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// callbackToken rebuilds the action token. Telebot splits it into Unique and
// Data only when a handler is registered for the unique, otherwise Data is raw.
func callbackToken(cb *tele.Callback) string {
	if cb.Unique == "" {
		return cb.Data
	}
	if cb.Data == "" {
		return cb.Unique
	}
	return cb.Unique + "|" + cb.Data
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	action, err := domain.ParseAction(callbackToken(callback))
	if err != nil {
		h.logger.Warn("Unhandled callback",
			zap.Error(err),
			zap.String("id", callback.ID),
			zap.Int64("user_id", c.Sender().ID),
		)
		return c.Respond()
	}

	owner := ownerKey(c)

	switch action.Kind {
	case domain.ActionShowCategory:
		return h.handleShowCategory(c, action.Category)
	case domain.ActionSelectItem:
		return h.handleSelectItem(c, owner, action.Category, action.Item)
	}

	switch action.Control {
	case domain.ControlBackMain:
		return h.show(c, h.nav.MainMenu())
	case domain.ControlBackCategory:
		return h.show(c, h.nav.CategoryList())
	case domain.ControlCart:
		return h.handleCart(c, owner)
	case domain.ControlClear:
		return h.handleClearCart(c, owner)
	case domain.ControlSubmit:
		return h.handleSubmit(c, owner)
	case domain.ControlShoppingRequest:
		return h.handleRequest(c, owner, domain.RequestShopping, textShoppingSent)
	case domain.ControlSurpriseRequest:
		return h.handleRequest(c, owner, domain.RequestSurprise, textSurpriseSent)
	}

	return c.Respond()
}

// handleShowCategory shows the items of a category
func (h *Handler) handleShowCategory(c tele.Context, key string) error {
	view, err := h.nav.ItemList(key)
	if err != nil {
		h.logger.Warn("Unknown category requested", zap.String("category", key))
		return c.Respond(&tele.CallbackResponse{Text: textUnknownSection})
	}
	return h.show(c, view)
}

// handleSelectItem adds an item and re-renders its category
func (h *Handler) handleSelectItem(c tele.Context, owner, category, item string) error {
	err := h.carts.AddItem(owner, category, item)
	switch {
	case errors.Is(err, domain.ErrUnknownCategory):
		h.logger.Warn("Unknown category selected", zap.String("category", category))
		return c.Respond(&tele.CallbackResponse{Text: textUnknownSection})
	case errors.Is(err, domain.ErrUnknownItem):
		h.logger.Warn("Unknown item selected",
			zap.String("category", category),
			zap.String("item", item),
		)
		return c.Respond(&tele.CallbackResponse{Text: textUnknownItem})
	case err != nil:
		return h.fail(c, "Failed to add item to cart", err)
	}

	view, err := h.nav.ItemList(category)
	if err != nil {
		return h.fail(c, "Failed to render item list", err)
	}
	view.Text = fmt.Sprintf(textItemAdded, item) + "\n\n" + view.Text
	return h.show(c, view)
}

// handleCart shows the cart
func (h *Handler) handleCart(c tele.Context, owner string) error {
	items, err := h.carts.Items(owner)
	if err != nil {
		return h.fail(c, "Failed to load cart", err)
	}
	return h.show(c, h.nav.CartView(items))
}

// handleClearCart empties the cart
func (h *Handler) handleClearCart(c tele.Context, owner string) error {
	if err := h.carts.Clear(owner); err != nil {
		return h.fail(c, "Failed to clear cart", err)
	}
	return h.show(c, h.nav.CartControls(textCartCleared))
}

// handleSubmit drains the cart and relays the order
func (h *Handler) handleSubmit(c tele.Context, owner string) error {
	items, err := h.carts.Submit(owner)
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return h.show(c, h.nav.CartControls(textCartEmpty))
	case err != nil:
		return h.fail(c, "Failed to submit cart", err)
	}

	if err := h.show(c, h.nav.Notice(textOrderSent)); err != nil {
		h.logger.Warn("Failed to show order confirmation", zap.Error(err))
	}

	// The cart is already drained, so delivery problems are logged rather than retried
	if err := h.requests.SubmitOrder(owner, c.Sender().ID, items); err != nil {
		h.logger.Warn("Order delivered partially",
			zap.String("owner", owner),
			zap.Error(err),
		)
	}
	return nil
}

// handleRequest records a shopping or surprise request
func (h *Handler) handleRequest(c tele.Context, owner string, kind domain.RequestKind, confirmation string) error {
	if err := h.requests.RecordRequest(kind, owner); err != nil {
		return h.fail(c, "Failed to record request", err)
	}
	return h.show(c, h.nav.Notice(confirmation))
}
