package auth

import "errors"

// General account errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrCheckingEmail     = errors.New("failed to check existing email")
)

// Lockout errors
var (
	ErrExcessiveLoginAttempts = errors.New("too many failed signin attempts")

	ErrWrongPasswordOnce       = errors.New("wrong password, 1 attempt")
	ErrWrongPasswordTwice      = errors.New("wrong password, 2 attempts")
	ErrWrongPasswordThreeTimes = errors.New("wrong password, 3 attempts")
	ErrWrongPasswordFourTimes  = errors.New("wrong password, 4 attempts")
	ErrWrongPasswordFiveTimes  = errors.New("wrong password, 5 attempts")
)

// wrongPasswordByAttempt is the fixed ordinal table mapping the failed
// attempt count to its error.
var wrongPasswordByAttempt = [...]error{
	ErrWrongPasswordOnce,
	ErrWrongPasswordTwice,
	ErrWrongPasswordThreeTimes,
	ErrWrongPasswordFourTimes,
	ErrWrongPasswordFiveTimes,
}

// WrongPasswordError returns the error for the given failed attempt count.
// Counts beyond the table (possible when concurrent failures race past the
// threshold) clamp to the last entry.
func WrongPasswordError(attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > len(wrongPasswordByAttempt) {
		attempts = len(wrongPasswordByAttempt)
	}
	return wrongPasswordByAttempt[attempts-1]
}

// Verification errors
var (
	ErrAlreadyVerified = errors.New("account already verified")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeNotEquals   = errors.New("verification code does not match")
	ErrSendingEmail    = errors.New("failed to send email")
)

// OAuth errors
var (
	ErrUnsupportedProvider   = errors.New("unsupported oauth provider")
	ErrInvalidExternalToken  = errors.New("external identity token could not be validated")
	ErrProviderAlreadyLinked = errors.New("provider identity already linked to an account")
	ErrLinkNotFound          = errors.New("oauth link not found")
)
