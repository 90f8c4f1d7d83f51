package auth

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ideahub/ideahub/pkg/auth"
	"github.com/ideahub/ideahub/pkg/session"
)

// Module wires the authentication services into an HTTP router.
type Module struct {
	authenticator auth.Authenticator
	verifier      auth.Verifier
	linker        auth.OAuthLinker
	validator     *session.Validator
	logger        *slog.Logger
}

// ModuleOption configures the module during construction.
type ModuleOption func(*Module)

// WithLogger sets a custom logger for the module.
func WithLogger(l *slog.Logger) ModuleOption {
	return func(m *Module) {
		m.logger = l
	}
}

// NewModule creates the HTTP module over the given services.
func NewModule(
	authenticator auth.Authenticator,
	verifier auth.Verifier,
	linker auth.OAuthLinker,
	validator *session.Validator,
	opts ...ModuleOption,
) *Module {
	m := &Module{
		authenticator: authenticator,
		verifier:      verifier,
		linker:        linker,
		validator:     validator,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Router returns the module's route table, meant to be mounted at /auth.
// Each path and method is registered explicitly; the change-password and
// provider-link endpoints sit behind token validation.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/signin", m.handleSignin)
	r.Post("/signup", m.handleSignup)
	r.Post("/send-recover-email", m.handleSendRecoverEmail)
	r.Post("/verify-email-code", m.handleVerifyEmailCode)

	r.Group(func(protected chi.Router) {
		protected.Use(m.validator.Middleware())
		protected.Post("/change-password", m.handleChangePassword)
		protected.Post("/link-new-oauth-provider/{provider}", m.handleLinkProvider)
	})

	r.Get("/social-login/{provider}", m.handleSocialLoginRedirect)
	r.Post("/social-login/{provider}", m.handleSocialLogin)
	r.Get("/callback/{provider}", m.handleCallback)

	return r
}

func (m *Module) provider(w http.ResponseWriter, r *http.Request) (auth.Provider, bool) {
	provider, err := auth.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		respondError(w, err)
		return "", false
	}
	return provider, true
}
