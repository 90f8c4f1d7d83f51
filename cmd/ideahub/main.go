package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authmodule "github.com/ideahub/ideahub/modules/auth"
	"github.com/ideahub/ideahub/pkg/auth"
	"github.com/ideahub/ideahub/pkg/config"
	"github.com/ideahub/ideahub/pkg/email"
	"github.com/ideahub/ideahub/pkg/httpserver"
	"github.com/ideahub/ideahub/pkg/logger"
	"github.com/ideahub/ideahub/pkg/pg"
	redisconn "github.com/ideahub/ideahub/pkg/redis"
	"github.com/ideahub/ideahub/pkg/session"
	"github.com/ideahub/ideahub/storage"
)

type appConfig struct {
	Log     logger.Config
	HTTP    httpserver.Config
	PG      pg.Config
	Redis   redisconn.Config
	Session session.Config
	Auth    auth.Config
	Email   email.Config

	DevMailDir string `env:"DEV_MAIL_DIR" envDefault:"./outbox"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log, "ideahub")

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		log.ErrorContext(ctx, "Failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

	redisClient, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	mailer := newMailer(cfg, log)

	codec, err := session.NewCodec(cfg.Session)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create token codec", logger.Error(err))
		os.Exit(1)
	}

	store := storage.NewPostgresStore(pool)
	stateStore := storage.NewRedisStateStore(redisClient)

	authenticator := auth.NewSigninService(store, codec,
		auth.WithSigninLogger(log),
		auth.WithMaxLoginAttempts(cfg.Auth.MaxLoginAttempts),
		auth.WithLockoutDuration(cfg.Auth.LockoutDuration),
		auth.WithSigninBcryptCost(cfg.Auth.BcryptCost),
	)
	verifier := auth.NewVerificationService(store, mailer, codec,
		auth.WithVerificationLogger(log),
		auth.WithCodeTTL(cfg.Auth.VerificationCodeTTL),
		auth.WithCodeLength(cfg.Auth.VerificationCodeLength),
	)
	linker := auth.NewOAuthLinker(store, store, stateStore, codec, newGateways(),
		auth.WithLinkerLogger(log),
	)
	validator := session.NewValidator(codec, auth.NewResolver(store),
		session.WithValidatorLogger(log),
	)

	module := authmodule.NewModule(authenticator, verifier, linker, validator,
		authmodule.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Mount("/auth", module.Router())
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redisconn.Healthcheck(redisClient),
	))

	srv := httpserver.New(cfg.HTTP, log)
	if err := srv.Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "Server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

// newMailer prefers Postmark when a server token is configured and falls
// back to the on-disk dev sender otherwise.
func newMailer(cfg appConfig, log *slog.Logger) email.EmailSender {
	if cfg.Email.PostmarkServerToken != "" {
		sender, err := email.NewPostmarkClient(cfg.Email)
		if err != nil {
			log.Error("Failed to create postmark client", logger.Error(err))
			os.Exit(1)
		}
		return sender
	}
	log.Warn("No postmark token configured, writing outbound email to disk", "dir", cfg.DevMailDir)
	return email.NewDevSender(cfg.DevMailDir)
}

// newGateways builds a gateway for every provider with credentials in the
// environment. Unconfigured providers are simply not registered.
func newGateways() []auth.IdentityProviderGateway {
	var gateways []auth.IdentityProviderGateway

	if os.Getenv("GOOGLE_OAUTH_CLIENT_ID") != "" {
		var cfg auth.GoogleConfig
		config.MustLoad(&cfg)
		gateways = append(gateways, auth.NewGoogleGateway(cfg))
	}
	if os.Getenv("GITHUB_OAUTH_CLIENT_ID") != "" {
		var cfg auth.GithubConfig
		config.MustLoad(&cfg)
		gateways = append(gateways, auth.NewGithubGateway(cfg))
	}
	if os.Getenv("LINKEDIN_OAUTH_CLIENT_ID") != "" {
		var cfg auth.LinkedinConfig
		config.MustLoad(&cfg)
		gateways = append(gateways, auth.NewLinkedinGateway(cfg))
	}

	return gateways
}
