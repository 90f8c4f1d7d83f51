package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// AccountResolver re-resolves the account behind a token subject.
// Implementations return ErrAccountNotFound when the account no longer
// exists; any other error is treated as a resolution failure.
type AccountResolver interface {
	ResolveAccount(ctx context.Context, accountID string) error
}

// Validator checks a bearer token against a concrete request.
type Validator struct {
	codec    *Codec
	resolver AccountResolver
	logger   *slog.Logger
}

// ValidatorOption configures a Validator during construction.
type ValidatorOption func(*Validator)

// WithValidatorLogger sets a custom logger for the validator.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a capability-token validator.
func NewValidator(codec *Codec, resolver AccountResolver, opts ...ValidatorOption) *Validator {
	v := &Validator{
		codec:    codec,
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate decodes the token and authorizes it for the given request
// method and path.
//
// Any decode or scope failure is reported as ErrUnauthorized. A token whose
// subject no longer resolves to an account yields ErrAccountNotFound, which
// callers surface distinctly from plain authorization failures.
func (v *Validator) Validate(ctx context.Context, token, method, path string) (Claims, error) {
	claims, err := v.codec.Parse(token)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}

	if !claims.AllowsRoute(method, path) {
		return Claims{}, ErrUnauthorized
	}

	accountID, err := claims.AccountID()
	if err != nil {
		return Claims{}, ErrUnauthorized
	}

	if err := v.resolver.ResolveAccount(ctx, accountID.String()); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Claims{}, ErrAccountNotFound
		}
		return Claims{}, fmt.Errorf("failed to resolve account: %w", err)
	}

	return claims, nil
}
