package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/listenupapp/mediashelf/internal/domain"
	domainerrors "github.com/listenupapp/mediashelf/internal/errors"
	"github.com/listenupapp/mediashelf/internal/http/response"
	"github.com/listenupapp/mediashelf/internal/metrics"
	"github.com/listenupapp/mediashelf/internal/service"
	"github.com/listenupapp/mediashelf/internal/validation"
)

var errTrailingData = errors.New("unexpected data after JSON body")

const (
	// keyHeader carries the shared secret.
	keyHeader = "key"

	jsonMediaType = "application/json"
)

// ActionHandler serves the action endpoint:
// method check, content-type check, parse, validate, dispatch, respond.
type ActionHandler struct {
	validator    *validation.PayloadValidator
	actions      *service.ActionService
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewActionHandler creates a new action handler.
func NewActionHandler(validator *validation.PayloadValidator, actions *service.ActionService, maxBodyBytes int64, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		validator:    validator,
		actions:      actions,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		metrics.RecordRequest(domain.ActionNone.String(), http.StatusMethodNotAllowed)
		response.MethodNotAllowed(w, h.logger)
		return
	}

	if !strings.Contains(r.Header.Get("Content-Type"), jsonMediaType) {
		metrics.RecordRequest(domain.ActionNone.String(), http.StatusUnsupportedMediaType)
		response.UnsupportedMediaType(w, h.logger)
		return
	}

	req := h.decode(w, r)
	req.Key = r.Header.Get(keyHeader)
	kind := req.Kind().String()

	if err := h.validator.Validate(req); err != nil {
		h.logger.Debug("action rejected",
			"request_id", requestID(r),
			"type", req.Type,
			"table", req.Table,
			"error", err,
		)
		h.fail(w, kind, err)
		return
	}

	envelope, err := h.actions.Dispatch(r.Context(), req)
	if err != nil {
		h.fail(w, kind, err)
		return
	}

	metrics.RecordRequest(kind, http.StatusOK)
	response.Success(w, envelope, h.logger)
}

// decode reads the action payload. A body that is not exactly one JSON
// object decodes as an empty request, which validation then rejects.
func (h *ActionHandler) decode(w http.ResponseWriter, r *http.Request) *domain.ActionRequest {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))

	var req domain.ActionRequest
	err := dec.Decode(&req)
	if err == nil {
		err = ensureEOF(dec)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("request body too large", "request_id", requestID(r), "limit", tooLarge.Limit)
		} else {
			h.logger.Debug("malformed request body", "request_id", requestID(r), "error", err)
		}
		return &domain.ActionRequest{}
	}
	return &req
}

// ensureEOF fails unless nothing but whitespace follows the decoded value.
func ensureEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

func (h *ActionHandler) fail(w http.ResponseWriter, kind string, err error) {
	status := http.StatusInternalServerError
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		status = domainErr.HTTPStatus()
	}
	metrics.RecordRequest(kind, status)
	response.HandleError(w, err, h.logger)
}
