package service

import (
	"context"
	"net/mail"
	"strings"

	"jumpstart-backend/models"

	"github.com/google/uuid"
)

// SubscriberService handles subscription logic
type SubscriberService struct {
	subscriberRepo SubscriberRepository
}

// NewSubscriberService creates a new subscriber service
func NewSubscriberService(subscriberRepo SubscriberRepository) *SubscriberService {
	return &SubscriberService{subscriberRepo: subscriberRepo}
}

// Subscribe validates and registers an email address. The address is
// lowercased before storage; a duplicate subscription is reported as
// models.ErrDuplicateEmail without mutating state.
func (s *SubscriberService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	subscriber := &models.Subscriber{
		Email:  normalized,
		Active: true,
	}
	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, err
	}

	return subscriber, nil
}

// Unsubscribe removes a subscriber by id. Removing an absent subscriber
// yields models.ErrSubscriberNotFound.
func (s *SubscriberService) Unsubscribe(ctx context.Context, id uuid.UUID) error {
	return s.subscriberRepo.DeleteByID(ctx, id)
}

// UnsubscribeEmail removes a subscriber by email address
func (s *SubscriberService) UnsubscribeEmail(ctx context.Context, email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	return s.subscriberRepo.DeleteByEmail(ctx, normalized)
}

// ListActive returns all subscribers with the active flag set
func (s *SubscriberService) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	return s.subscriberRepo.ListActive(ctx)
}

// NormalizeEmail validates an address and returns its canonical lowercased
// form. Validation is stricter than a bare "@" check: the address must parse
// and the domain must contain a dot.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", models.NewValidationError(models.CodeInvalidEmail, "email is required")
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", models.NewValidationError(models.CodeInvalidEmail, "invalid email address")
	}

	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || !strings.Contains(addr.Address[at+1:], ".") {
		return "", models.NewValidationError(models.CodeInvalidEmail, "invalid email address")
	}

	return strings.ToLower(addr.Address), nil
}
