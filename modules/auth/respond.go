package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ideahub/ideahub/pkg/auth"
	"github.com/ideahub/ideahub/pkg/session"
)

// errorEntry pairs a symbolic message code with its fixed HTTP status.
type errorEntry struct {
	code   string
	status int
}

// errorTable is the static lookup from core errors to wire codes. Every
// code maps to exactly one status.
var errorTable = []struct {
	err   error
	entry errorEntry
}{
	{auth.ErrUserNotFound, errorEntry{"USER_NOT_FOUND", http.StatusNotFound}},
	{auth.ErrUserAlreadyExists, errorEntry{"USER_ALREADY_EXISTS", http.StatusConflict}},
	{auth.ErrCheckingEmail, errorEntry{"ERROR_WHILE_CHECKING_EMAIL", http.StatusInternalServerError}},
	{auth.ErrExcessiveLoginAttempts, errorEntry{"EXCESSIVE_LOGIN_ATTEMPTS", http.StatusTooManyRequests}},
	{auth.ErrWrongPasswordOnce, errorEntry{"WRONG_PASSWORD_ONCE", http.StatusUnauthorized}},
	{auth.ErrWrongPasswordTwice, errorEntry{"WRONG_PASSWORD_TWICE", http.StatusUnauthorized}},
	{auth.ErrWrongPasswordThreeTimes, errorEntry{"WRONG_PASSWORD_THREE_TIMES", http.StatusUnauthorized}},
	{auth.ErrWrongPasswordFourTimes, errorEntry{"WRONG_PASSWORD_FOUR_TIMES", http.StatusUnauthorized}},
	{auth.ErrWrongPasswordFiveTimes, errorEntry{"WRONG_PASSWORD_FIVE_TIMES", http.StatusUnauthorized}},
	{auth.ErrAlreadyVerified, errorEntry{"USER_ALREADY_VERIFIED", http.StatusConflict}},
	{auth.ErrCodeExpired, errorEntry{"CODE_EXPIRED", http.StatusBadRequest}},
	{auth.ErrCodeNotEquals, errorEntry{"CODE_NOT_EQUALS", http.StatusBadRequest}},
	{auth.ErrSendingEmail, errorEntry{"ERROR_WHILE_SENDING_EMAIL", http.StatusInternalServerError}},
	{auth.ErrUnsupportedProvider, errorEntry{"UNSUPPORTED_PROVIDER", http.StatusBadRequest}},
	{auth.ErrInvalidExternalToken, errorEntry{"INVALID_EXTERNAL_TOKEN", http.StatusUnauthorized}},
	{auth.ErrProviderAlreadyLinked, errorEntry{"PROVIDER_ALREADY_LINKED", http.StatusConflict}},
	{session.ErrUnauthorized, errorEntry{"UNAUTHORIZED", http.StatusUnauthorized}},
	{session.ErrAccountNotFound, errorEntry{"USER_NOT_FOUND", http.StatusNotFound}},
}

// errorResponse is the wire shape for every failure.
type errorResponse struct {
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, err error) {
	entry := errorEntry{"INTERNAL_ERROR", http.StatusInternalServerError}
	for _, row := range errorTable {
		if errors.Is(err, row.err) {
			entry = row.entry
			break
		}
	}
	respondJSON(w, entry.status, errorResponse{Message: entry.code})
}

func respondValidation(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Message: message})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
