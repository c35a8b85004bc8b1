package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/liketagger/backend/internal/logging"
)

// errorResponse is the envelope for every failed gateway request.
type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// badRequestError marks malformed caller input; its message is returned verbatim.
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return badRequestError{msg: msg}
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logging.FromContext(r.Context()).Warn("invalid request payload", "error", err)
		return badRequest("invalid request body")
	}
	return nil
}

// respondError turns a route failure into the error envelope. Store failures
// keep their original message.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	var bad badRequestError
	if errors.As(err, &bad) {
		respondJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: bad.msg})
		return
	}
	respondJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	if subject := logging.SubjectFromContext(ctx); subject != "" {
		logger = logger.With("subject", subject)
	}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
