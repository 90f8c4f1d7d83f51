package auth

import (
	"encoding/json"
	"net/http"

	"github.com/ideahub/ideahub/pkg/clientip"
	"github.com/ideahub/ideahub/pkg/logger"
	"github.com/ideahub/ideahub/pkg/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type externalTokenRequest struct {
	Token string `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (m *Module) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondValidation(w, "EMAIL_AND_PASSWORD_REQUIRED")
		return
	}

	result, err := m.authenticator.Signin(r.Context(), req.Email, req.Password, clientip.GetIP(r))
	if err != nil {
		m.logger.InfoContext(r.Context(), "signin rejected", logger.Error(err), logger.Component("http"))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

func (m *Module) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondValidation(w, "EMAIL_AND_PASSWORD_REQUIRED")
		return
	}

	result, err := m.authenticator.Signup(r.Context(), req.Email, req.Password, clientip.GetIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tokenResponse{Token: result.Token})
}

func (m *Module) handleSendRecoverEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondValidation(w, "EMAIL_REQUIRED")
		return
	}

	if err := m.verifier.IssueCode(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (m *Module) handleVerifyEmailCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Code == "" {
		respondValidation(w, "EMAIL_AND_CODE_REQUIRED")
		return
	}

	token, err := m.verifier.ValidateCode(r.Context(), req.Email, req.Code, clientip.GetIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (m *Module) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, session.ErrUnauthorized)
		return
	}
	accountID, err := claims.AccountID()
	if err != nil {
		respondError(w, session.ErrUnauthorized)
		return
	}

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		respondValidation(w, "NEW_PASSWORD_REQUIRED")
		return
	}

	if err := m.authenticator.ChangePassword(r.Context(), accountID, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (m *Module) handleSocialLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := m.provider(w, r)
	if !ok {
		return
	}

	var req externalTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		respondValidation(w, "TOKEN_REQUIRED")
		return
	}

	result, err := m.linker.SocialLogin(r.Context(), provider, req.Token, clientip.GetIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

// handleSocialLoginRedirect starts the browser flow by redirecting to the
// provider's consent screen with a one-time state parameter.
func (m *Module) handleSocialLoginRedirect(w http.ResponseWriter, r *http.Request) {
	provider, ok := m.provider(w, r)
	if !ok {
		return
	}

	url, err := m.linker.AuthURL(r.Context(), provider)
	if err != nil {
		respondError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (m *Module) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := m.provider(w, r)
	if !ok {
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		respondValidation(w, "STATE_AND_CODE_REQUIRED")
		return
	}

	result, err := m.linker.HandleCallback(r.Context(), provider, state, code, clientip.GetIP(r))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: result.Token})
}

func (m *Module) handleLinkProvider(w http.ResponseWriter, r *http.Request) {
	provider, ok := m.provider(w, r)
	if !ok {
		return
	}

	claims, found := session.ClaimsFromContext(r.Context())
	if !found {
		respondError(w, session.ErrUnauthorized)
		return
	}
	accountID, err := claims.AccountID()
	if err != nil {
		respondError(w, session.ErrUnauthorized)
		return
	}

	var req externalTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Token == "" {
		respondValidation(w, "TOKEN_REQUIRED")
		return
	}

	if err := m.linker.LinkProvider(r.Context(), accountID, provider, req.Token); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondValidation(w, "MALFORMED_REQUEST_BODY")
		return false
	}
	return true
}
