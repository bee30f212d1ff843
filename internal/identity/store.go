package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/security"
)

const (
	defaultConfirmationTTL = 24 * time.Hour

	uniqueViolationCode      = "23505"
	usernameUniqueConstraint = "users_username_key"
	emailUniqueConstraint    = "users_email_key"
)

// Store implements port.IdentityStore on top of a user repository, a
// confirmation-token repository, and Argon2id password hashing. It is the
// sole owner of user persistence and lifecycle; callers receive opaque user
// handles and never touch hash or stamp fields.
type Store struct {
	users     port.UserRepository
	tokens    port.ConfirmationTokenRepository
	validator *security.PasswordValidator
	tokenTTL  time.Duration
	newID     func() string
	now       func() time.Time
}

// NewStore constructs an identity store.
func NewStore(users port.UserRepository, tokens port.ConfirmationTokenRepository, validator *security.PasswordValidator) *Store {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &Store{
		users:     users,
		tokens:    tokens,
		validator: validator,
		tokenTTL:  defaultConfirmationTTL,
		newID:     newUUID,
		now:       time.Now,
	}
}

// WithTokenTTL overrides the confirmation token lifetime.
func (s *Store) WithTokenTTL(ttl time.Duration) *Store {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// WithClock overrides the time source for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

// FindByUsername looks up a user by exact username.
func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// FindByEmail looks up a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// CheckPassword verifies the presented password against the stored hash.
func (s *Store) CheckPassword(_ context.Context, user *domain.User, password string) (bool, error) {
	if user == nil {
		return false, nil
	}
	return security.VerifyPassword(password, user.PasswordHash)
}

// Create validates the password against policy, hashes it, and persists the
// user. Policy violations and uniqueness conflicts are reported as a
// *port.CreateError carrying structured descriptions; uniqueness is enforced
// atomically by the database constraints, not by any pre-check.
func (s *Store) Create(ctx context.Context, user domain.User, password string) (*domain.User, error) {
	if violations := s.validator.Validate(password); len(violations) > 0 {
		return nil, &port.CreateError{Descriptions: violations}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if user.ID == "" {
		user.ID = s.newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}
	user.PasswordHash = hash
	user.PasswordAlgo = security.PasswordAlgo

	if err := s.users.Create(ctx, user); err != nil {
		if createErr := translateUniqueViolation(err); createErr != nil {
			return nil, createErr
		}
		return nil, err
	}

	return &user, nil
}

// GenerateConfirmationToken issues a fresh single-use token for the user and
// stores its hash with the configured TTL. The raw value is returned once and
// never persisted.
func (s *Store) GenerateConfirmationToken(ctx context.Context, user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("user is required")
	}

	raw, err := security.GenerateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("generate confirmation token: %w", err)
	}

	if err := s.tokens.Store(ctx, user.ID, security.HashToken(raw), s.tokenTTL); err != nil {
		return "", fmt.Errorf("store confirmation token: %w", err)
	}

	return raw, nil
}

// ConfirmEmail redeems the token against the user and, on success, flips the
// confirmation state and rotates the security stamp. A bad, expired, or
// already-consumed token reports false without error.
func (s *Store) ConfirmEmail(ctx context.Context, user *domain.User, token string) (bool, error) {
	if user == nil || user.ID == "" || token == "" {
		return false, nil
	}

	ok, err := s.tokens.Redeem(ctx, user.ID, security.HashToken(token))
	if err != nil {
		return false, fmt.Errorf("redeem confirmation token: %w", err)
	}
	if !ok {
		return false, nil
	}

	now := s.now().UTC()
	stamp := s.newID()
	if err := s.users.SetEmailConfirmed(ctx, user.ID, stamp, now); err != nil {
		return false, fmt.Errorf("mark email confirmed: %w", err)
	}

	user.Confirm(stamp, now)

	return true, nil
}

func translateUniqueViolation(err error) *port.CreateError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}

	switch pgErr.ConstraintName {
	case usernameUniqueConstraint:
		return &port.CreateError{Descriptions: []string{"username is already taken"}}
	case emailUniqueConstraint:
		return &port.CreateError{Descriptions: []string{"email is already registered"}}
	default:
		return &port.CreateError{Descriptions: []string{"username or email already exists"}}
	}
}

var _ port.IdentityStore = (*Store)(nil)
