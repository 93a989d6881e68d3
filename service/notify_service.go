package service

import (
	"context"
	"log/slog"
	"sync"

	"jumpstart-backend/email"
	"jumpstart-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Fan-out width for concurrent sends. A long subscriber list should not
// serialize into one slow SMTP round-trip per recipient.
const defaultSendWorkers = 8

// SendSummary reports the aggregate outcome of a notification run
type SendSummary struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// NotificationService fans a newsletter announcement out to all active
// subscribers.
type NotificationService struct {
	newsletterRepo NewsletterRepository
	subscriberRepo SubscriberRepository
	sender         email.Sender
	baseURL        string
	workers        int
	logger         *slog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(newsletterRepo NewsletterRepository, subscriberRepo SubscriberRepository, sender email.Sender, baseURL string, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		newsletterRepo: newsletterRepo,
		subscriberRepo: subscriberRepo,
		sender:         sender,
		baseURL:        baseURL,
		workers:        defaultSendWorkers,
		logger:         logger,
	}
}

// SendNewsletter emails every active subscriber about a newsletter. Each
// send is attempted independently: failures are collected and reported in
// aggregate, never aborting the remaining sends. The newsletter's
// subscribers_notified flag guards against double sends across invocations.
func (s *NotificationService) SendNewsletter(ctx context.Context, id uuid.UUID) (*SendSummary, error) {
	newsletter, err := s.newsletterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if newsletter.SubscribersNotified {
		return nil, models.ErrAlreadyNotified
	}

	subscribers, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(subscribers) == 0 {
		return nil, models.ErrNoActiveSubscribers
	}

	subject, body := email.NewsletterMessage(s.baseURL, newsletter)

	summary := &SendSummary{}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for _, subscriber := range subscribers {
		sub := subscriber
		group.Go(func() error {
			sendErr := s.sender.Send(groupCtx, email.Message{
				To:       sub.Email,
				Subject:  subject,
				HTMLBody: body,
			})

			mu.Lock()
			defer mu.Unlock()
			if sendErr != nil {
				summary.Failed++
				summary.Errors = append(summary.Errors, sub.Email)
				s.logger.Warn("newsletter send failed",
					slog.String("newsletter_id", id.String()),
					slog.String("subscriber", sub.Email),
					slog.String("error", sendErr.Error()))
				return nil // a single failure must not abort the rest
			}
			summary.Sent++
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes completion.
	_ = group.Wait()

	if summary.Sent > 0 {
		if err := s.newsletterRepo.MarkNotified(ctx, id); err != nil {
			s.logger.Error("failed to mark newsletter notified",
				slog.String("newsletter_id", id.String()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.Info("newsletter notification run finished",
		slog.String("newsletter_id", id.String()),
		slog.Int("sent", summary.Sent),
		slog.Int("failed", summary.Failed))

	return summary, nil
}
