// Package session issues and validates the signed bearer tokens that carry
// account sessions.
//
// Tokens are stateless JWTs (HS256). Besides the standard temporal claims a
// token may carry a list of route scopes; such a limited-capability token is
// only accepted for the listed endpoints and is used to grant a single
// follow-up action (for example "you may now change your password") without
// full account access.
//
// The Codec is a pure encode/decode layer. The Validator layers route-scope
// enforcement and account re-resolution on top and is what HTTP middleware
// should use.
package session
