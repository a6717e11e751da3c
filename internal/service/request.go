package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"orderbot/internal/domain"
	"orderbot/internal/repository"

	"go.uber.org/zap"
)

// Messenger sends plain text to a chat
type Messenger interface {
	Send(chatID int64, text string) error
}

// ReplyReport summarizes one administrator reply cycle
type ReplyReport struct {
	Delivered []string
	Skipped   []string
	Failed    []*domain.DeliveryError
}

// RequestService records requests, relays orders and routes administrator replies
type RequestService struct {
	requestRepo repository.RequestRepository
	users       *UserService
	messenger   Messenger
	logger      *zap.Logger

	// mu serializes request recording against the reply cycle
	mu sync.Mutex
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repository.RequestRepository,
	users *UserService,
	messenger Messenger,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		users:       users,
		messenger:   messenger,
		logger:      logger,
	}
}

type outbound struct {
	recipient string
	chatID    int64
	text      string
}

// RecordRequest stores requester as the pending requester for kind and
// notifies the administrator when one is registered
func (s *RequestService) RecordRequest(kind domain.RequestKind, requester string) error {
	s.mu.Lock()
	previous, err := s.requestRepo.SetPending(kind, requester)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("record request: %w: %w", domain.ErrPersistence, err)
	}

	s.logger.Info("Request recorded",
		zap.String("kind", string(kind)),
		zap.String("requester", requester),
	)
	if previous != "" && previous != requester {
		s.logger.Info("Pending request displaced",
			zap.String("kind", string(kind)),
			zap.String("previous", previous),
			zap.String("requester", requester),
		)
	}

	adminID, ok, err := s.users.AdminChatID()
	if err != nil {
		s.logger.Warn("Failed to resolve administrator", zap.Error(err))
		return nil
	}
	if !ok {
		s.logger.Debug("Administrator not registered, skipping notification")
		return nil
	}

	text := fmt.Sprintf("📩 %s запросил %s", domain.Mention(requester), kind.Description())
	for _, derr := range s.deliver([]outbound{{recipient: s.users.AdminUsername(), chatID: adminID, text: text}}) {
		s.logger.Warn("Failed to notify administrator", zap.Error(derr))
	}
	return nil
}

// RouteAdminReply sends the administrator's text to every pending requester
// and then clears the pending set in one write
func (s *RequestService) RouteAdminReply(sender, text string) (ReplyReport, error) {
	var report ReplyReport

	if !s.users.IsAdmin(sender) {
		return report, domain.ErrNotAuthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.requestRepo.Pending()
	if err != nil {
		return report, fmt.Errorf("load pending requests: %w: %w", domain.ErrPersistence, err)
	}

	reply := "📩 Ответ администратора: " + text
	seen := make(map[string]bool, len(pending))
	var messages []outbound
	for _, req := range pending {
		if seen[req.Requester] {
			continue
		}
		seen[req.Requester] = true

		chatID, ok, err := s.users.ChatID(req.Requester)
		if err != nil {
			report.Failed = append(report.Failed, &domain.DeliveryError{Recipient: req.Requester, Err: err})
			continue
		}
		if !ok {
			report.Skipped = append(report.Skipped, req.Requester)
			continue
		}
		messages = append(messages, outbound{recipient: req.Requester, chatID: chatID, text: reply})
	}

	failed := s.deliver(messages)
	report.Failed = append(report.Failed, failed...)
	for _, m := range messages {
		if !hasFailure(failed, m.recipient) {
			report.Delivered = append(report.Delivered, m.recipient)
		}
	}

	for _, derr := range report.Failed {
		s.logger.Warn("Failed to deliver administrator reply", zap.Error(derr))
	}

	if err := s.requestRepo.ClearPending(); err != nil {
		return report, fmt.Errorf("clear pending requests: %w: %w", domain.ErrPersistence, err)
	}

	s.logger.Info("Administrator reply routed",
		zap.Int("pending", len(pending)),
		zap.Int("delivered", len(report.Delivered)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
	)
	return report, nil
}

// SubmitOrder confirms a submitted order to its owner and forwards it to the
// administrator. Nothing is persisted; delivery failures are returned joined.
func (s *RequestService) SubmitOrder(owner string, chatID int64, items []string) error {
	list := formatItems(items)
	messages := []outbound{{
		recipient: owner,
		chatID:    chatID,
		text:      "✅ Ваш заказ отправлен администратору.\n\nВаш заказ:\n" + list,
	}}

	adminID, ok, err := s.users.AdminChatID()
	switch {
	case err != nil:
		s.logger.Warn("Failed to resolve administrator", zap.Error(err))
	case ok:
		messages = append(messages, outbound{
			recipient: s.users.AdminUsername(),
			chatID:    adminID,
			text:      fmt.Sprintf("📩 Новый заказ от %s:\n%s", domain.Mention(owner), list),
		})
	}

	failed := s.deliver(messages)
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, derr := range failed {
		errs = append(errs, derr)
	}
	return errors.Join(errs...)
}

// deliver sends every message in its own goroutine so a slow recipient
// does not hold up the others
func (s *RequestService) deliver(messages []outbound) []*domain.DeliveryError {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []*domain.DeliveryError
	)
	for _, m := range messages {
		wg.Add(1)
		go func(m outbound) {
			defer wg.Done()
			if err := s.messenger.Send(m.chatID, m.text); err != nil {
				mu.Lock()
				failed = append(failed, &domain.DeliveryError{Recipient: m.recipient, Err: err})
				mu.Unlock()
			}
		}(m)
	}
	wg.Wait()
	return failed
}

func hasFailure(failed []*domain.DeliveryError, recipient string) bool {
	for _, f := range failed {
		if f.Recipient == recipient {
			return true
		}
	}
	return false
}

func formatItems(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
