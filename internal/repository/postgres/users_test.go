package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/repository"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock, NewUserRepositoryWithExecutor(mock)
}

func sampleUser() domain.User {
	return domain.User{
		ID:            "user-1",
		Username:      "alice",
		Email:         "alice@example.com",
		PasswordHash:  "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		PasswordAlgo:  "argon2id",
		SecurityStamp: "stamp-1",
		CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)
	user := sampleUser()

	mock.ExpectExec(`INSERT INTO auth\.users`).
		WithArgs(
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
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateUniqueViolationSurfaces(t *testing.T) {
	mock, repo := newMockRepo(t)
	user := sampleUser()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	mock.ExpectExec(`INSERT INTO auth\.users`).
		WithArgs(
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
		).
		WillReturnError(pgErr)

	err := repo.Create(context.Background(), user)

	var got *pgconn.PgError
	if !errors.As(err, &got) || got.Code != "23505" {
		t.Fatalf("expected wrapped unique violation, got %v", err)
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock, repo := newMockRepo(t)
	user := sampleUser()

	rows := pgxmock.NewRows(userColumns).
		AddRow(
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

	mock.ExpectQuery(`SELECT .+ FROM auth\.users WHERE username = \$1`).
		WithArgs(user.Username).
		WillReturnRows(rows)

	got, err := repo.GetByUsername(context.Background(), user.Username)
	if err != nil {
		t.Fatalf("GetByUsername returned error: %v", err)
	}
	if got.ID != user.ID || got.Email != user.Email {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM auth\.users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_SetEmailConfirmed(t *testing.T) {
	mock, repo := newMockRepo(t)
	confirmedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE auth\.users SET email_confirmed = \$1, security_stamp = \$2, confirmed_at = \$3 WHERE id = \$4`).
		WithArgs(true, "stamp-2", confirmedAt, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetEmailConfirmed(context.Background(), "user-1", "stamp-2", confirmedAt); err != nil {
		t.Fatalf("SetEmailConfirmed returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_SetEmailConfirmedMissingUser(t *testing.T) {
	mock, repo := newMockRepo(t)
	confirmedAt := time.Now().UTC()

	mock.ExpectExec(`UPDATE auth\.users`).
		WithArgs(true, "stamp-2", confirmedAt, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetEmailConfirmed(context.Background(), "ghost", "stamp-2", confirmedAt)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
