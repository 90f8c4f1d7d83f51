package session

import "errors"

var (
	ErrMissingSigningSecret = errors.New("session: missing signing secret")
	ErrTokenInvalid         = errors.New("session: invalid token")
	ErrTokenExpired         = errors.New("session: token expired")
	ErrUnauthorized         = errors.New("session: unauthorized")
	ErrAccountNotFound      = errors.New("session: account no longer exists")
)
