package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideahub/ideahub/pkg/httpserver"
)

func TestServerRunAndShutdown(t *testing.T) {
	srv := httpserver.New(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}()

	// Cancelling the context must unblock Run without an error.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServerRunTwice(t *testing.T) {
	srv := httpserver.New(httpserver.Config{Addr: "127.0.0.1:0"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Run(ctx, nil) }()
	time.Sleep(100 * time.Millisecond)

	err := srv.Run(ctx, nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(ctx, log)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("readiness ok", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(ctx, log, func(context.Context) error { return nil })
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("readiness failure", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(ctx, log, func(context.Context) error { return errors.New("db down") })
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}
