// Package auth exposes the authentication core over HTTP: password signin
// and signup, email-code recovery, password change behind a
// limited-capability token, and the OAuth social-login and provider-link
// flows. Every error response is a JSON payload with a symbolic message
// code mapped to one fixed status.
package auth
