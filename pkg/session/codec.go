package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config holds token signing configuration.
// SessionTTL is the default lifetime of a full session token; CapabilityTTL
// bounds limited-capability tokens minted for one follow-up action.
type Config struct {
	SigningSecret string        `env:"AUTH_SIGNING_SECRET,required"`
	SessionTTL    time.Duration `env:"AUTH_SESSION_TTL" envDefault:"720h"`
	CapabilityTTL time.Duration `env:"AUTH_CAPABILITY_TTL" envDefault:"15m"`
}

// Codec encodes and decodes session tokens. It is stateless and safe for
// concurrent use.
type Codec struct {
	secret        []byte
	sessionTTL    time.Duration
	capabilityTTL time.Duration
}

// NewCodec creates a token codec from configuration.
// The signing secret is mandatory; TTLs fall back to sane defaults when
// unset so the codec is usable from tests with a zero-value-ish config.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.SigningSecret == "" {
		return nil, ErrMissingSigningSecret
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 720 * time.Hour
	}
	if cfg.CapabilityTTL <= 0 {
		cfg.CapabilityTTL = 15 * time.Minute
	}
	return &Codec{
		secret:        []byte(cfg.SigningSecret),
		sessionTTL:    cfg.SessionTTL,
		capabilityTTL: cfg.CapabilityTTL,
	}, nil
}

// SessionTTL returns the default lifetime for unrestricted session tokens.
func (c *Codec) SessionTTL() time.Duration { return c.sessionTTL }

// CapabilityTTL returns the lifetime used for limited-capability tokens.
func (c *Codec) CapabilityTTL() time.Duration { return c.capabilityTTL }

// Issue signs the claims into a compact token. A non-positive ttl selects
// the default session lifetime; callers minting limited-capability tokens
// pass CapabilityTTL (or shorter, e.g. for about-to-expire test scenarios).
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.sessionTTL
	}

	now := time.Now()
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Parse verifies the signature and temporal claims of a token and returns
// the decoded claims. Expired tokens are reported as ErrTokenExpired; every
// other failure is ErrTokenInvalid.
func (c *Codec) Parse(tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
