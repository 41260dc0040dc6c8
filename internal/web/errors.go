package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request and run IDs
//  5. User message is rendered as JSON for API routes, HTML otherwise

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/featureprep/internal/core"
	"github.com/JonMunkholm/featureprep/internal/logging"
	"github.com/JonMunkholm/featureprep/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a pipeline error.
func statusFor(err error) int {
	var missing *core.MissingInputError
	var parseErr *core.ParseError
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &missing):
		return http.StatusNotFound
	case errors.As(err, &parseErr), errors.Is(err, core.ErrEmptyFile):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and returns a user
// message in the format the client expects.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error alert page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
