package auth

import "time"

// Config holds the tunables of the authentication core.
type Config struct {
	MaxLoginAttempts       int           `env:"AUTH_MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	LockoutDuration        time.Duration `env:"AUTH_LOCKOUT_DURATION" envDefault:"30m"`
	VerificationCodeTTL    time.Duration `env:"AUTH_VERIFICATION_CODE_TTL" envDefault:"10m"`
	VerificationCodeLength int           `env:"AUTH_VERIFICATION_CODE_LENGTH" envDefault:"6"`
	BcryptCost             int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}
