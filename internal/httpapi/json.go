package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oncallhq/tenantd/internal/auth"
	"github.com/oncallhq/tenantd/internal/store"
	"github.com/oncallhq/tenantd/internal/tenant"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeError translates domain errors to HTTP responses. Every recoverable
// error kind maps to a 4xx; anything unrecognised (store connectivity
// included) fails loudly as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "incorrect email or password"})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "could not validate credentials"})
	case errors.Is(err, auth.ErrInactiveAccount):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "inactive account"})
	case errors.Is(err, auth.ErrNoOrganization):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "user has no organization"})
	case errors.Is(err, tenant.ErrRecordNotFound), errors.Is(err, store.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, store.ErrUserAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// writeValidationError reports a malformed or invalid request payload.
func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload: " + err.Error()})
}
