package response

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]any{"items": []string{}, "table": "books"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"items":[],"table":"books"}`, w.Body.String())
}

func TestJSON_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]any{"bad": make(chan int)}, discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation without table",
			err:      domainerrors.Validation("missing type"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"missing type"}`,
		},
		{
			name:     "validation with table",
			err:      domainerrors.Validation("missing query").WithTable("games"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"missing query","table":"games"}`,
		},
		{
			name:     "unauthorized",
			err:      domainerrors.Unauthorized("unauthorized").WithTable("books"),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"unauthorized","table":"books"}`,
		},
		{
			name:     "backend with correlation",
			err:      domainerrors.Backend(errors.New("media item already exists")).WithTable("movies").WithLocation("Insert"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"media item already exists","table":"movies","location":"Insert"}`,
		},
		{
			name:     "wrapped domain error",
			err:      errors.Join(errors.New("context"), domainerrors.ErrMethodNotAllowed),
			wantCode: http.StatusMethodNotAllowed,
			wantBody: `{"error":"method not allowed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("boom"), discardLogger())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestStatusWriters(t *testing.T) {
	tests := []struct {
		name     string
		write    func(http.ResponseWriter, *slog.Logger)
		wantCode int
	}{
		{name: "method not allowed", write: MethodNotAllowed, wantCode: http.StatusMethodNotAllowed},
		{name: "unsupported media type", write: UnsupportedMediaType, wantCode: http.StatusUnsupportedMediaType},
		{name: "too many requests", write: TooManyRequests, wantCode: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w, discardLogger())
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		})
	}
}
