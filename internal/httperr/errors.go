package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Error is an HTTP-mapped application error. The message is safe to return to
// the webhook caller verbatim.
type Error struct {
	Message    string
	StatusCode int
}

func New(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

func (e *Error) Error() string { return e.Message }

// Status classifies the error for the response envelope: "fail" for 4xx
// client errors, "error" for everything else.
func (e *Error) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

func BadRequest(message string) *Error {
	return New("Bad Request: "+message, http.StatusBadRequest)
}

func Unauthorized(message string) *Error {
	return New("Unauthorized: "+message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	return New("Forbidden: "+message, http.StatusForbidden)
}

func NotFound(message string) *Error {
	return New("Not Found: "+message, http.StatusNotFound)
}

func MethodNotAllowed() *Error {
	return New("Method Not Allowed", http.StatusMethodNotAllowed)
}

func Internal(message string) *Error {
	return New("Internal Server Error: "+message, http.StatusInternalServerError)
}

func ServiceUnavailable(message string) *Error {
	return New("Service Unavailable: "+message, http.StatusServiceUnavailable)
}

func GatewayTimeout(message string) *Error {
	return New("Gateway Timeout: "+message, http.StatusGatewayTimeout)
}

// envelope is the error response body shared by every endpoint.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Handle writes err as a JSON error envelope. Typed errors keep their status
// code and message; anything else is logged server-side and reported as a
// generic 500 so internals never leak to the caller.
func Handle(w http.ResponseWriter, err error) {
	var herr *Error
	if errors.As(err, &herr) {
		writeEnvelope(w, envelope{
			Status:  herr.Status(),
			Message: herr.Message,
			Code:    herr.StatusCode,
		})
		return
	}

	slog.Error("unexpected error", "err", err)
	writeEnvelope(w, envelope{
		Status:  "error",
		Message: "Internal server error",
		Code:    http.StatusInternalServerError,
	})
}

func writeEnvelope(w http.ResponseWriter, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	_ = json.NewEncoder(w).Encode(env)
}
