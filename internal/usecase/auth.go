package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/logger"
	"github.com/fahim-cse12/AutoDiagon/internal/repository"
)

// Response messages are kept byte-identical to the legacy service, including
// their original spelling; clients match on them.
const (
	msgLoginMissingInput    = "User name or password cannot be null"
	msgLoginSuccess         = "Login Successfully"
	msgInvalidCredentials   = "Invalid User name or Password"
	msgRegisterMissingInput = "UserName, Email and Password not be Empty"
	msgEmailAlreadyExists   = "This email is already exist"
	msgCreateFailed         = "User has failed to create"
	msgConfirmMissingInput  = "email and token is mendatory for verify"
	msgEmailVerified        = "Email Verified Successfully"
	msgUserNotExist         = "This user is not exist !"

	confirmationMailSubject = "Confirmation Email Link"
)

// Credentials is the login input.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegistrationRequest is the registration input.
type RegistrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService orchestrates login, registration, and email confirmation. It is
// stateless: every operation is an independent request-response unit, safe
// for concurrent use. All collaborator outcomes, expected or not, resolve to
// the AuthResult envelope; nothing escapes as an error.
type AuthService struct {
	store          port.IdentityStore
	issuer         port.TokenIssuer
	mailer         port.MailSender
	events         port.EventPublisher
	log            *zap.Logger
	confirmBaseURL string
}

// NewAuthService constructs an AuthService. baseURL shapes the confirmation
// link embedded in registration mail.
func NewAuthService(store port.IdentityStore, issuer port.TokenIssuer, mailer port.MailSender, baseURL string) *AuthService {
	return &AuthService{
		store:          store,
		issuer:         issuer,
		mailer:         mailer,
		log:            zap.NewNop(),
		confirmBaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// WithEventPublisher attaches a domain event publisher. Publishing is
// best-effort and never fails the operation.
func (s *AuthService) WithEventPublisher(events port.EventPublisher) *AuthService {
	s.events = events
	return s
}

// WithLogger attaches a structured logger.
func (s *AuthService) WithLogger(log *zap.Logger) *AuthService {
	if log != nil {
		s.log = log
	}
	return s
}

// Login validates credentials and issues a session credential. An unknown
// username and a bad password produce the identical generic result so the two
// cases cannot be told apart from outside.
func (s *AuthService) Login(ctx context.Context, creds *Credentials) domain.AuthResult {
	if creds == nil {
		return domain.FailResult(msgLoginMissingInput)
	}

	user, err := s.store.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.FailResult(msgInvalidCredentials)
		}
		return s.failure("login", err)
	}

	ok, err := s.store.CheckPassword(ctx, user, creds.Password)
	if err != nil {
		return s.failure("login", err)
	}
	if !ok {
		return domain.FailResult(msgInvalidCredentials)
	}

	token, err := s.issuer.Issue(ctx, *user)
	if err != nil {
		return s.failure("login", err)
	}

	return domain.OkResult(&domain.SessionCredential{
		Username: user.Username,
		Token:    token,
	}, msgLoginSuccess)
}

// Register creates an unconfirmed user and mails a confirmation link. The
// email pre-check is a best-effort courtesy; the store's create step is the
// atomic uniqueness guarantee. A mail delivery failure after the user row is
// created surfaces as a generic service failure, leaving the user registered
// but unnotified.
func (s *AuthService) Register(ctx context.Context, req *RegistrationRequest) domain.AuthResult {
	if req == nil {
		return domain.FailResult(msgRegisterMissingInput)
	}

	if _, err := s.store.FindByEmail(ctx, req.Email); err == nil {
		return domain.FailResult(msgEmailAlreadyExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return s.failure("register", err)
	}

	user := domain.User{
		Username:         strings.ToLower(req.Username),
		Email:            req.Email,
		SecurityStamp:    uuid.NewString(),
		EmailConfirmed:   false,
		TwoFactorEnabled: false,
	}

	created, err := s.store.Create(ctx, user, req.Password)
	if err != nil {
		var createErr *port.CreateError
		if errors.As(err, &createErr) {
			return domain.FailResultWithErrors(msgCreateFailed, createErr.Descriptions)
		}
		return s.failure("register", err)
	}

	s.publishRegistered(ctx, created)

	token, err := s.store.GenerateConfirmationToken(ctx, created)
	if err != nil {
		return s.failure("register", err)
	}

	link := s.confirmationLink(token, created.Email)
	msg := port.Message{
		To:      []string{created.Email},
		Subject: confirmationMailSubject,
		Body:    link,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return s.failure("register", err)
	}

	return domain.OkResult(nil, fmt.Sprintf("User Created and mail sent o %s successfully!", created.Email))
}

// ConfirmEmail redeems a confirmation token. The guard trips only when both
// inputs are empty; a single empty value proceeds to lookup and fails there.
// A missing user and a bad token share one response, and that response keeps
// the legacy success flag.
func (s *AuthService) ConfirmEmail(ctx context.Context, token, email string) domain.AuthResult {
	if token == "" && email == "" {
		return domain.FailResult(msgConfirmMissingInput)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.OkResult(nil, msgUserNotExist)
		}
		return s.failure("confirm_email", err)
	}

	ok, err := s.store.ConfirmEmail(ctx, user, token)
	if err != nil {
		return s.failure("confirm_email", err)
	}
	if !ok {
		return domain.OkResult(nil, msgUserNotExist)
	}

	s.publishConfirmed(ctx, user)

	return domain.OkResult(nil, msgEmailVerified)
}

func (s *AuthService) confirmationLink(token, email string) string {
	return fmt.Sprintf("%s/api/Auth/ConfirmEmail?token=%s&email=%s",
		s.confirmBaseURL, url.QueryEscape(token), url.QueryEscape(email))
}

// failure is the outer error-mapping boundary: any unexpected collaborator
// failure becomes success=false with the raw message and no error list.
func (s *AuthService) failure(op string, err error) domain.AuthResult {
	s.log.Error("auth operation failed",
		zap.String("operation", op),
		zap.Error(err),
	)
	return domain.FailResult(err.Error())
}

func (s *AuthService) publishRegistered(ctx context.Context, user *domain.User) {
	if s.events == nil || user == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: user.CreatedAt,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.log.Warn("publish user registered event failed",
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
	}
}

func (s *AuthService) publishConfirmed(ctx context.Context, user *domain.User) {
	if s.events == nil || user == nil {
		return
	}

	confirmedAt := time.Now().UTC()
	if user.ConfirmedAt != nil {
		confirmedAt = *user.ConfirmedAt
	}

	event := domain.EmailConfirmedEvent{
		EventID:     uuid.NewString(),
		UserID:      user.ID,
		Email:       user.Email,
		ConfirmedAt: confirmedAt,
	}
	if err := s.events.PublishEmailConfirmed(ctx, event); err != nil {
		s.log.Warn("publish email confirmed event failed",
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
	}
}
