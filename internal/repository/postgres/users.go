package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
	"github.com/fahim-cse12/AutoDiagon/internal/repository"
)

const usersTable = "auth.users"

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"password_algo",
	"security_stamp",
	"email_confirmed",
	"two_factor_enabled",
	"created_at",
	"confirmed_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// NewUserRepositoryWithExecutor builds a repository around an arbitrary
// executor, used by tests to substitute a mock connection.
func NewUserRepositoryWithExecutor(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row. Unique violations on username or email
// surface as *pgconn.PgError with code 23505 for the caller to translate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.PasswordAlgo,
			user.SecurityStamp,
			user.EmailConfirmed,
			user.TwoFactorEnabled,
			user.CreatedAt,
			user.ConfirmedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username}, "user by username")
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email}, "user by email")
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq, what string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From(usersTable).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s sql: %w", what, err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordAlgo,
		&user.SecurityStamp,
		&user.EmailConfirmed,
		&user.TwoFactorEnabled,
		&user.CreatedAt,
		&user.ConfirmedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan %s: %w", what, err)
	}

	return &user, nil
}

// SetEmailConfirmed flips the confirmation flag and rotates the security stamp.
func (r *UserRepository) SetEmailConfirmed(ctx context.Context, id string, securityStamp string, confirmedAt time.Time) error {
	stmt, args, err := r.builder.Update(usersTable).
		Set("email_confirmed", true).
		Set("security_stamp", securityStamp).
		Set("confirmed_at", confirmedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build confirm email sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
