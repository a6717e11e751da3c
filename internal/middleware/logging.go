package middleware

import (
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const maxLoggedPayload = 256

// Logging writes one debug line per update and warns when a handler fails
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()

			fields := make([]zap.Field, 0, 5)
			if user := c.Sender(); user != nil {
				fields = append(fields,
					zap.Int64("user_id", user.ID),
					zap.String("username", user.Username),
				)
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("callback", truncate(cb.Data)))
			} else if text := c.Text(); text != "" {
				fields = append(fields, zap.String("text", truncate(text)))
			}
			logger.Debug("Update received", fields...)

			err := next(c)

			fields = append(fields, zap.Duration("elapsed", time.Since(start)))
			if err != nil {
				logger.Warn("Handler failed", append(fields, zap.Error(err))...)
			}
			return err
		}
	}
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLoggedPayload {
		return s
	}
	return string(runes[:maxLoggedPayload]) + "…"
}
