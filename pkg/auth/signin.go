package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideahub/ideahub/pkg/logger"
	"github.com/ideahub/ideahub/pkg/sanitizer"
	"github.com/ideahub/ideahub/pkg/session"
)

// Authenticator defines password-based authentication operations.
type Authenticator interface {
	Signup(ctx context.Context, email, password, ip string) (*SigninResult, error)
	Signin(ctx context.Context, email, password, ip string) (*SigninResult, error)
	ChangePassword(ctx context.Context, accountID uuid.UUID, newPassword string) error
}

type signinService struct {
	storage     CredentialStore
	codec       *session.Codec
	maxAttempts int
	lockout     time.Duration
	bcryptCost  int
	logger      *slog.Logger
}

// SigninOption configures the signin service during construction.
type SigninOption func(*signinService)

// WithSigninLogger sets a custom logger for the service.
func WithSigninLogger(l *slog.Logger) SigninOption {
	return func(s *signinService) {
		s.logger = l
	}
}

// WithMaxLoginAttempts overrides the failed-attempt threshold.
func WithMaxLoginAttempts(n int) SigninOption {
	return func(s *signinService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithLockoutDuration overrides the lockout window applied at the threshold.
func WithLockoutDuration(d time.Duration) SigninOption {
	return func(s *signinService) {
		if d > 0 {
			s.lockout = d
		}
	}
}

// WithSigninBcryptCost sets the bcrypt cost for password hashing.
func WithSigninBcryptCost(cost int) SigninOption {
	return func(s *signinService) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// NewSigninService creates the password authentication service.
// Defaults: 5 attempts, 30 minute lockout, bcrypt default cost.
func NewSigninService(storage CredentialStore, codec *session.Codec, opts ...SigninOption) Authenticator {
	s := &signinService{
		storage:     storage,
		codec:       codec,
		maxAttempts: 5,
		lockout:     30 * time.Minute,
		bcryptCost:  bcrypt.DefaultCost,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates a new unverified account and signs it in.
func (s *signinService) Signup(ctx context.Context, email, password, ip string) (*SigninResult, error) {
	email = sanitizer.NormalizeEmail(email)

	_, err := s.storage.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, errors.Join(ErrCheckingEmail, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		ProfileID:    uuid.New(),
		Verified:     false,
		CreatedAt:    time.Now(),
	}

	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	token, err := issueSessionToken(s.codec, account, ip)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account created",
		logger.UserID(account.ID.String()),
		logger.Email(sanitizer.MaskEmail(account.Email)),
		logger.Component("signin"),
	)

	return &SigninResult{Token: token, Account: account}, nil
}

// Signin authenticates an email/password pair and mints an unrestricted
// session token.
//
// The order of checks is load-bearing: the lockout gate runs before the
// password is ever compared, and an elapsed block resets the counter before
// the comparison so the next failure counts as the first of a new streak.
func (s *signinService) Signin(ctx context.Context, email, password, ip string) (*SigninResult, error) {
	email = sanitizer.NormalizeEmail(email)

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.LoginAttempts >= s.maxAttempts {
		if account.Blocked(time.Now()) {
			return nil, ErrExcessiveLoginAttempts
		}
		if err := s.storage.ResetLoginAttempts(ctx, account.ID); err != nil {
			return nil, fmt.Errorf("failed to reset login attempts: %w", err)
		}
		account.LoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		attempts, err := s.storage.RecordFailedLogin(ctx, account.ID, s.maxAttempts, s.lockout)
		if err != nil {
			return nil, fmt.Errorf("failed to record failed login: %w", err)
		}

		if attempts >= s.maxAttempts {
			s.logger.WarnContext(ctx, "account locked out",
				logger.UserID(account.ID.String()),
				slog.Int("attempts", attempts),
				logger.Component("signin"),
			)
		}

		return nil, WrongPasswordError(attempts)
	}

	if err := s.storage.ResetLoginAttempts(ctx, account.ID); err != nil {
		return nil, fmt.Errorf("failed to reset login attempts: %w", err)
	}
	account.LoginAttempts = 0

	token, err := issueSessionToken(s.codec, account, ip)
	if err != nil {
		return nil, err
	}

	return &SigninResult{Token: token, Account: account}, nil
}

// ChangePassword replaces the account password and clears lockout state and
// any pending verification code, so a recovered account starts clean.
func (s *signinService) ChangePassword(ctx context.Context, accountID uuid.UUID, newPassword string) error {
	if _, err := s.storage.GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.storage.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.storage.ResetLoginAttempts(ctx, accountID); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	if err := s.storage.ClearVerificationCode(ctx, accountID); err != nil {
		return fmt.Errorf("failed to clear verification code: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		logger.UserID(accountID.String()),
		logger.Component("signin"),
	)

	return nil
}

// issueSessionToken mints an unrestricted session token for the account.
func issueSessionToken(codec *session.Codec, account *Account, ip string) (string, error) {
	claims := session.Claims{
		VerifiedEmail: account.Verified,
		IPAddress:     ip,
	}
	claims.Subject = account.ID.String()
	if account.ProfileID != uuid.Nil {
		claims.ProfileID = account.ProfileID.String()
	}

	token, err := codec.Issue(claims, 0)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, nil
}

// Compile-time interface assertion
var _ Authenticator = (*signinService)(nil)
