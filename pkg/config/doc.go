// Package config loads application configuration from environment variables
// into plain Go structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file (when present) is read exactly once per process, then
// env.Parse fills the struct based on `env` field tags.
//
// Usage:
//
//	type AuthConfig struct {
//		SigningSecret string        `env:"AUTH_SIGNING_SECRET,required"`
//		SessionTTL    time.Duration `env:"AUTH_SESSION_TTL" envDefault:"720h"`
//	}
//
//	var cfg AuthConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics on failure and is intended for configuration the process
// cannot start without.
package config
