package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ideahub/ideahub/pkg/email"
	"github.com/ideahub/ideahub/pkg/logger"
	"github.com/ideahub/ideahub/pkg/sanitizer"
	"github.com/ideahub/ideahub/pkg/session"
)

// Verifier issues recovery codes over email and exchanges a valid code for
// a limited-capability token.
type Verifier interface {
	IssueCode(ctx context.Context, emailAddr string) error
	ValidateCode(ctx context.Context, emailAddr, code, ip string) (string, error)
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type verificationService struct {
	storage    CredentialStore
	mailer     email.EmailSender
	codec      *session.Codec
	codeTTL    time.Duration
	codeLength int
	logger     *slog.Logger
}

// VerificationOption configures the verification service.
type VerificationOption func(*verificationService)

// WithVerificationLogger sets a custom logger for the service.
func WithVerificationLogger(l *slog.Logger) VerificationOption {
	return func(s *verificationService) {
		s.logger = l
	}
}

// WithCodeTTL overrides the code validity window.
func WithCodeTTL(ttl time.Duration) VerificationOption {
	return func(s *verificationService) {
		if ttl > 0 {
			s.codeTTL = ttl
		}
	}
}

// WithCodeLength overrides the generated code length.
func WithCodeLength(n int) VerificationOption {
	return func(s *verificationService) {
		if n > 0 {
			s.codeLength = n
		}
	}
}

// NewVerificationService creates the recovery-code service.
// Defaults: 10 minute code lifetime, 6 character codes.
func NewVerificationService(storage CredentialStore, mailer email.EmailSender, codec *session.Codec, opts ...VerificationOption) Verifier {
	s := &verificationService{
		storage:    storage,
		mailer:     mailer,
		codec:      codec,
		codeTTL:    10 * time.Minute,
		codeLength: 6,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueCode generates a fresh recovery code, stores it on the account and
// emails it. Re-issuing overwrites any previous code along with its
// timestamp. The code is persisted before the send, so a delivery failure
// leaves a valid code behind and a retry simply overwrites it.
func (s *verificationService) IssueCode(ctx context.Context, emailAddr string) error {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	account, err := s.storage.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account.Verified {
		return ErrAlreadyVerified
	}

	code, err := generateCode(s.codeLength)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	vc := VerificationCode{Value: code, IssuedAt: time.Now()}
	if err := s.storage.SetVerificationCode(ctx, account.ID, vc); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	params, err := email.RecoveryCodeEmail(account.Email, code, s.codeTTL.String())
	if err != nil {
		return errors.Join(ErrSendingEmail, err)
	}
	if err := s.mailer.SendEmail(ctx, params); err != nil {
		s.logger.ErrorContext(ctx, "recovery email delivery failed",
			logger.UserID(account.ID.String()),
			logger.Email(sanitizer.MaskEmail(account.Email)),
			logger.Error(err),
			logger.Component("verification"),
		)
		return errors.Join(ErrSendingEmail, err)
	}

	s.logger.InfoContext(ctx, "recovery code issued",
		logger.UserID(account.ID.String()),
		logger.Email(sanitizer.MaskEmail(account.Email)),
		logger.Component("verification"),
	)

	return nil
}

// ValidateCode checks a submitted code against the stored one and, on
// success, clears the code, marks the account verified and mints a
// limited-capability token scoped to the password-change route.
//
// Expiry is checked before equality, so an expired-but-correct code reports
// expiry. A code whose age equals the lifetime exactly is already expired.
// Comparison ignores case.
func (s *verificationService) ValidateCode(ctx context.Context, emailAddr, code, ip string) (string, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	account, err := s.storage.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get account: %w", err)
	}
	if account.VerificationCode == nil {
		return "", ErrUserNotFound
	}

	if time.Since(account.VerificationCode.IssuedAt) >= s.codeTTL {
		return "", ErrCodeExpired
	}
	if !strings.EqualFold(account.VerificationCode.Value, code) {
		return "", ErrCodeNotEquals
	}

	if err := s.storage.ClearVerificationCode(ctx, account.ID); err != nil {
		return "", fmt.Errorf("failed to clear verification code: %w", err)
	}
	if err := s.storage.MarkVerified(ctx, account.ID); err != nil {
		return "", fmt.Errorf("failed to mark account verified: %w", err)
	}

	claims := session.Claims{
		VerifiedEmail: true,
		IPAddress:     ip,
		ValidRoutes: []session.RouteScope{
			{Route: ChangePasswordRoute, Method: "POST"},
		},
	}
	claims.Subject = account.ID.String()
	if account.ProfileID != uuid.Nil {
		claims.ProfileID = account.ProfileID.String()
	}

	token, err := s.codec.Issue(claims, s.codec.CapabilityTTL())
	if err != nil {
		return "", fmt.Errorf("failed to issue capability token: %w", err)
	}

	s.logger.InfoContext(ctx, "recovery code validated",
		logger.UserID(account.ID.String()),
		logger.Component("verification"),
	)

	return token, nil
}

// generateCode draws length characters from an uppercase alphanumeric
// alphabet without the easily confused 0/O/1/I.
func generateCode(length int) (string, error) {
	size := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

var _ Verifier = (*verificationService)(nil)
