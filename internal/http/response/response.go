// Package response provides JSON response writers and the error-to-status mapping
// shared by the gateway's handlers.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
)

const contentType = "application/json; charset=utf-8"

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error    string `json:"error"`
	Table    string `json:"table,omitempty"`
	Location string `json:"location,omitempty"`
}

// JSON writes body as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	payload, err := json.Marshal(body)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
		status = http.StatusInternalServerError
		payload = []byte(`{"error":"internal server error"}`)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil && logger != nil {
		logger.Debug("Failed to write response", "error", err)
	}
}

// Success writes a 200 OK response.
func Success(w http.ResponseWriter, body any, logger *slog.Logger) {
	JSON(w, http.StatusOK, body, logger)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, body ErrorBody, logger *slog.Logger) {
	JSON(w, status, body, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	HandleError(w, domainerrors.ErrMethodNotAllowed, logger)
}

// UnsupportedMediaType writes a 415 Unsupported Media Type response.
func UnsupportedMediaType(w http.ResponseWriter, logger *slog.Logger) {
	HandleError(w, domainerrors.ErrUnsupportedMediaType, logger)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, logger *slog.Logger) {
	HandleError(w, domainerrors.ErrTooManyRequests, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors are mapped to their HTTP codes with their correlation fields,
// unknown errors become 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		Error(w, domainErr.HTTPStatus(), ErrorBody{
			Error:    domainErr.Message,
			Table:    domainErr.Table,
			Location: domainErr.Location,
		}, logger)
		return
	}

	// Unknown error = 500
	internal := domainerrors.ErrInternal.WithCause(err)
	if logger != nil {
		logger.Error("Unhandled error", "error", internal)
	}
	HandleError(w, internal, logger)
}
