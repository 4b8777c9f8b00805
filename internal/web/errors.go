package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Status is derived from the error kind, the message via core.MapError
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered as an HTMX fragment, JSON or plain text

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/JonMunkholm/partconfig/internal/logging"
	"github.com/go-playground/validator/v10"
)

var (
	errRateLimited    = errors.New("rate limit exceeded")
	errInvalidRequest = errors.New("invalid request")
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case core.IsMissingInput(err), errors.As(err, &verrs), errors.Is(err, errInvalidRequest),
		errors.Is(err, core.ErrInvalidMode), errors.Is(err, core.ErrInvalidItemCode):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnknownPart):
		return http.StatusNotFound
	case errors.Is(err, core.ErrReferenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and returns a
// user-friendly response in the format the client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		ErrorAlert(userMsg).Render(r.Context(), w)
		return
	}
	respondErrorJSON(w, userMsg, status)
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

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
