package port

import (
	"context"
	"time"
)

// ConfirmationTokenRepository stores single-use confirmation token hashes.
// Redeem consumes the stored hash atomically: a second redemption with the
// same value reports false without error.
type ConfirmationTokenRepository interface {
	Store(ctx context.Context, userID, tokenHash string, ttl time.Duration) error
	Redeem(ctx context.Context, userID, tokenHash string) (bool, error)
}
