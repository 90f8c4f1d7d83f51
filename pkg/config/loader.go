package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load parses environment variables into the provided configuration struct.
//
// The default .env file is loaded once per process before the first parse;
// a missing .env file is not an error. Parsing rules follow the `env` and
// `envDefault` field tags understood by caarlos0/env.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		// The .env file is a development convenience and may be absent.
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
