package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
)

const defaultTokenPrefix = "auth:confirmation"

// redeemScript deletes the stored hash only when it matches the presented
// one, making redemption single-use under concurrent confirmations.
var redeemScript = red.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ConfirmationTokenRepository persists single-use confirmation token hashes
// in Redis with a TTL. Expiry is enforced by Redis itself: an expired key is
// simply absent at redemption time.
type ConfirmationTokenRepository struct {
	client *red.Client
	prefix string
}

// NewConfirmationTokenRepository constructs the repository with the provided
// Redis client and key prefix.
func NewConfirmationTokenRepository(client *red.Client, keyPrefix string) *ConfirmationTokenRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultTokenPrefix
	}

	return &ConfirmationTokenRepository{
		client: client,
		prefix: prefix,
	}
}

// Store persists a token hash for the user. A subsequent Store overwrites the
// previous token, so only the most recently issued link stays valid.
func (r *ConfirmationTokenRepository) Store(ctx context.Context, userID, tokenHash string, ttl time.Duration) error {
	userID = strings.TrimSpace(userID)
	tokenHash = strings.TrimSpace(tokenHash)

	switch {
	case userID == "":
		return errors.New("user id is required")
	case tokenHash == "":
		return errors.New("token hash is required")
	case ttl <= 0:
		return errors.New("ttl must be positive")
	}

	if err := r.client.Set(ctx, r.key(userID), tokenHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis store confirmation token: %w", err)
	}

	return nil
}

// Redeem consumes the stored hash when it matches. Returns false without
// error for missing, expired, mismatched, or already-consumed tokens.
func (r *ConfirmationTokenRepository) Redeem(ctx context.Context, userID, tokenHash string) (bool, error) {
	userID = strings.TrimSpace(userID)
	tokenHash = strings.TrimSpace(tokenHash)
	if userID == "" || tokenHash == "" {
		return false, nil
	}

	deleted, err := redeemScript.Run(ctx, r.client, []string{r.key(userID)}, tokenHash).Int()
	if err != nil {
		return false, fmt.Errorf("redis redeem confirmation token: %w", err)
	}

	return deleted == 1, nil
}

func (r *ConfirmationTokenRepository) key(userID string) string {
	return r.prefix + ":" + userID
}

var _ port.ConfirmationTokenRepository = (*ConfirmationTokenRepository)(nil)
