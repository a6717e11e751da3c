package notify

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)

// sender is the part of *tele.Bot used for outbound messages
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Options controls retries of a single send
type Options struct {
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxFloodWait bounds how long a flood-wait response is honoured
	MaxFloodWait time.Duration
}

// Telegram sends plain text messages through the bot API
type Telegram struct {
	bot    sender
	opts   Options
	logger *zap.Logger
	sleep  func(time.Duration)
}

// NewTelegram creates a messenger with sane defaults for zero options
func NewTelegram(bot sender, opts Options, logger *zap.Logger) *Telegram {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.MaxFloodWait <= 0 {
		opts.MaxFloodWait = 30 * time.Second
	}
	return &Telegram{
		bot:    bot,
		opts:   opts,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Send delivers text to chatID, retrying transient failures
func (t *Telegram) Send(chatID int64, text string) error {
	attempts := t.opts.MaxRetries + 1

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if _, err = t.bot.Send(tele.ChatID(chatID), text); err == nil {
			if attempt > 1 {
				t.logger.Info("Message delivered after retry",
					zap.Int64("chat_id", chatID),
					zap.Int("attempt", attempt),
				)
			}
			return nil
		}

		delay, retry := t.retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}
		t.logger.Debug("Retrying message delivery",
			zap.Int64("chat_id", chatID),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.String("error", sanitize(err)),
		)
		t.sleep(delay)
	}

	t.logger.Warn("Failed to deliver message",
		zap.Int64("chat_id", chatID),
		zap.String("error", sanitize(err)),
	)
	return errors.New(sanitize(err))
}

func (t *Telegram) retryDelay(err error, attempt int) (time.Duration, bool) {
	var flood tele.FloodError
	if errors.As(err, &flood) {
		wait := time.Duration(flood.RetryAfter) * time.Second
		if wait > t.opts.MaxFloodWait {
			return 0, false
		}
		return wait, true
	}
	if ShouldRetry(err) {
		return t.opts.RetryBackoff * time.Duration(attempt), true
	}
	return 0, false
}

// ShouldRetry reports whether a network error is worth retrying
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() || opErr.Op == "dial" {
			return true
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && !errors.Is(urlErr.Err, err) {
			return ShouldRetry(urlErr.Err)
		}
	}

	return false
}

// sanitize keeps bot tokens out of logs and returned errors
func sanitize(err error) string {
	if err == nil {
		return ""
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return fmt.Sprintf("telegram: retry after %d (429)", flood.RetryAfter)
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
