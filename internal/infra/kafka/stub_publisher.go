package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs auth.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("auth.user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishEmailConfirmed logs auth.user.email_confirmed events.
func (p *StubPublisher) PublishEmailConfirmed(_ context.Context, event domain.EmailConfirmedEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"email":        event.Email,
		"confirmed_at": event.ConfirmedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("auth.user.email_confirmed", event.UserID, event.ConfirmedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
