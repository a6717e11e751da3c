package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// RequireSender drops updates that carry no user, such as channel posts.
// Carts and requests are keyed by the sender, so nothing downstream can serve them.
func RequireSender(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil {
				logger.Debug("Dropping update without sender")
				if c.Callback() != nil {
					return c.Respond()
				}
				return nil
			}
			return next(c)
		}
	}
}
