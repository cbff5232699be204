package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

// TranslateHandler handles translation fan-out requests.
type TranslateHandler struct {
	service distcontent.Service
}

// NewTranslateHandler creates a new translation handler
func NewTranslateHandler(service distcontent.Service) *TranslateHandler {
	return &TranslateHandler{service: service}
}

// Routes returns the routes for translation
func (h *TranslateHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{kind}/{id}", h.TranslateContent)
	return r
}

// TranslateRequest is the request body for a translation fan-out.
type TranslateRequest struct {
	SourceLanguage  string            `json:"source_language"`
	TargetLanguages []string          `json:"target_languages"`
	Fields          map[string]string `json:"fields"`
}

// TranslateResponse is the reconciled per-language outcome. Statuses
// maps language code to "success" or "error"; a language the backend
// never answered for reports "error".
type TranslateResponse struct {
	Statuses  map[string]distcontent.TranslationStatus `json:"statuses"`
	Succeeded int                                      `json:"succeeded"`
	Failed    int                                      `json:"failed"`
}

// TranslateContent fans the item's fields out to the requested
// languages and returns the per-language statuses.
func (h *TranslateHandler) TranslateContent(w http.ResponseWriter, r *http.Request) {
	kind := distcontent.ContentKind(chi.URLParam(r, "kind"))

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid content ID", "content_id", idStr, "error", err)
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return
	}

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := h.service.TranslateContent(r.Context(), distcontent.TranslateContentRequest{
		Kind:            kind,
		ContentID:       id,
		SourceLanguage:  req.SourceLanguage,
		TargetLanguages: req.TargetLanguages,
		Fields:          req.Fields,
	})
	if err != nil {
		slog.Error("Translation failed", "kind", kind, "content_id", id.String(), "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Translation completed", "kind", kind, "content_id", id.String(),
		"succeeded", summary.Succeeded, "failed", summary.Failed)
	render.JSON(w, r, TranslateResponse{
		Statuses:  summary.Statuses,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
	})
}
