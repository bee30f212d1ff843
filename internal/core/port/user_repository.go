package port

import (
	"context"
	"time"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetEmailConfirmed(ctx context.Context, id string, securityStamp string, confirmedAt time.Time) error
}
