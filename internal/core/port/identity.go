package port

import (
	"context"
	"strings"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
)

// IdentityStore owns user persistence, password verification, and
// confirmation-token issuance and redemption. The auth service treats it as a
// black box; lookups that miss return repository.ErrNotFound.
type IdentityStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	CheckPassword(ctx context.Context, user *domain.User, password string) (bool, error)
	Create(ctx context.Context, user domain.User, password string) (*domain.User, error)
	GenerateConfirmationToken(ctx context.Context, user *domain.User) (string, error)
	ConfirmEmail(ctx context.Context, user *domain.User, token string) (bool, error)
}

// CreateError carries the structured descriptions the identity store reports
// when a creation is rejected (password policy, uniqueness).
type CreateError struct {
	Descriptions []string
}

// Error implements error.
func (e *CreateError) Error() string {
	if e == nil || len(e.Descriptions) == 0 {
		return "identity store rejected user creation"
	}
	return strings.Join(e.Descriptions, "; ")
}
