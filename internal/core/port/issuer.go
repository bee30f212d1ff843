package port

import (
	"context"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
)

// TokenIssuer produces a signed access credential for a validated user.
type TokenIssuer interface {
	Issue(ctx context.Context, user domain.User) (string, error)
}
