package session

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret-32-chars-long"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{SigningSecret: testSecret})
	require.NoError(t, err)
	return codec
}

func TestNewCodec(t *testing.T) {
	t.Parallel()

	t.Run("requires signing secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewCodec(Config{})
		assert.ErrorIs(t, err, ErrMissingSigningSecret)
	})

	t.Run("applies ttl defaults", func(t *testing.T) {
		t.Parallel()
		codec, err := NewCodec(Config{SigningSecret: testSecret})
		require.NoError(t, err)
		assert.Equal(t, 720*time.Hour, codec.SessionTTL())
		assert.Equal(t, 15*time.Minute, codec.CapabilityTTL())
	})
}

func TestCodecIssueParse(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	accountID := uuid.New()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()

		claims := Claims{
			ProfileID:     uuid.NewString(),
			VerifiedEmail: true,
			IPAddress:     "198.51.100.23",
		}
		claims.Subject = accountID.String()

		token, err := codec.Issue(claims, time.Hour)
		require.NoError(t, err)

		parsed, err := codec.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, claims.Subject, parsed.Subject)
		assert.Equal(t, claims.ProfileID, parsed.ProfileID)
		assert.True(t, parsed.VerifiedEmail)
		assert.Equal(t, "198.51.100.23", parsed.IPAddress)
		assert.False(t, parsed.Restricted())

		got, err := parsed.AccountID()
		require.NoError(t, err)
		assert.Equal(t, accountID, got)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		claims := Claims{}
		claims.Subject = accountID.String()

		token, err := codec.Issue(claims, time.Nanosecond)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = codec.Parse(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()

		claims := Claims{}
		claims.Subject = accountID.String()

		token, err := codec.Issue(claims, time.Hour)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

		_, err = codec.Parse(tampered)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		other, err := NewCodec(Config{SigningSecret: "another-secret-that-is-long-too"})
		require.NoError(t, err)

		claims := Claims{}
		claims.Subject = accountID.String()
		token, err := other.Issue(claims, time.Hour)
		require.NoError(t, err)

		_, err = codec.Parse(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

// TestClaimsAllowsRoute pins the route-scope matching rule: an entry matches
// when the request method OR the request path matches. Changing this to
// require both is a behavior change that must be made deliberately.
func TestClaimsAllowsRoute(t *testing.T) {
	t.Parallel()

	restricted := Claims{
		ValidRoutes: []RouteScope{{Route: "/auth/change-password", Method: "POST"}},
	}

	tests := []struct {
		name   string
		method string
		path   string
		want   bool
	}{
		{"exact match", "POST", "/auth/change-password", true},
		{"method matches, path differs", "POST", "/ideas", true},
		{"path matches, method differs", "GET", "/auth/change-password", true},
		{"neither matches", "GET", "/ideas", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, restricted.AllowsRoute(tt.method, tt.path))
		})
	}

	t.Run("unrestricted claims allow everything", func(t *testing.T) {
		t.Parallel()
		unrestricted := Claims{}
		assert.True(t, unrestricted.AllowsRoute("DELETE", "/anything"))
	})
}
