package port

import (
	"context"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishEmailConfirmed(ctx context.Context, event domain.EmailConfirmedEvent) error
}
