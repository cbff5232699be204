package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable error details. Section/Field
// are set for validation failures so the console can focus the right
// form tab.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Section string `json:"section,omitempty"`
	Field   string `json:"field,omitempty"`
}

// writeError maps service errors onto HTTP status codes and the JSON
// error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *distcontent.ValidationError
	if errors.As(err, &vErr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: ErrorBody{
			Code:    "validation_error",
			Message: vErr.Message,
			Section: vErr.Section,
			Field:   vErr.Field,
		}})
		return
	}

	var sagaErr *distcontent.SagaError
	if errors.As(err, &sagaErr) {
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, ErrorResponse{Error: ErrorBody{
			Code:    "release_flow_error",
			Message: sagaErr.Error(),
		}})
		return
	}

	var shErr *distcontent.SharingError
	if errors.As(err, &shErr) && shErr.Op == "normalize" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: ErrorBody{
			Code:    "invalid_argument",
			Message: shErr.Error(),
		}})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, distcontent.ErrWriteNotApplied):
		status = http.StatusBadGateway
		code = "write_not_applied"
	case errors.Is(err, distcontent.ErrContentNotFound),
		errors.Is(err, distcontent.ErrReleaseNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, distcontent.ErrInvalidContentKind),
		errors.Is(err, distcontent.ErrInvalidTargetingMode):
		status = http.StatusBadRequest
		code = "invalid_argument"
	case errors.Is(err, distcontent.ErrProviderNotConfigured),
		errors.Is(err, distcontent.ErrTranslatorNotConfigured):
		status = http.StatusConflict
		code = "provider_not_configured"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorBody{Code: code, Message: err.Error()}})
}
