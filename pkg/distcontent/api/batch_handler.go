package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

// 512 MiB covers the largest training videos we ship.
const maxBatchUploadBytes = 512 << 20

// BatchHandler handles multipart batch ingestion of staged files.
type BatchHandler struct {
	service distcontent.Service
}

// NewBatchHandler creates a new batch ingestion handler
func NewBatchHandler(service distcontent.Service) *BatchHandler {
	return &BatchHandler{service: service}
}

// Routes returns the routes for batch ingestion
func (h *BatchHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{kind}", h.IngestBatch)
	return r
}

// BatchItemResponse is the per-file outcome of a batch ingestion.
type BatchItemResponse struct {
	FileName  string `json:"file_name"`
	ContentID string `json:"content_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResponse aggregates a batch ingestion.
type BatchResponse struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
}

// IngestBatch ingests a multipart form of staged files. Form fields
// category, language, status, product_id and distributor_ids apply
// uniformly to every file; per-file titles are derived from file names
// unless a titles[] field overrides them positionally.
func (h *BatchHandler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	kind := distcontent.ContentKind(chi.URLParam(r, "kind"))

	if err := r.ParseMultipartForm(maxBatchUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := distcontent.BatchIngestRequest{
		Kind:           kind,
		Category:       r.FormValue("category"),
		Language:       r.FormValue("language"),
		Status:         distcontent.ContentStatus(r.FormValue("status")),
		DistributorIDs: r.Form["distributor_ids"],
	}

	if v := r.FormValue("product_id"); v != "" {
		productID, err := uuid.Parse(v)
		if err != nil {
			slog.Error("Invalid product ID", "product_id", v, "error", err)
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}
		req.ProductID = &productID
	}

	titles := r.Form["titles"]
	fileHeaders := r.MultipartForm.File["files"]
	for i, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			slog.Error("Failed to open uploaded file", "file_name", fh.Filename, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()

		file := distcontent.PendingFile{
			FileName:  fh.Filename,
			Format:    strings.TrimPrefix(filepath.Ext(fh.Filename), "."),
			SizeBytes: fh.Size,
			Data:      f,
		}
		if i < len(titles) {
			file.Title = titles[i]
		}
		req.Files = append(req.Files, file)
	}

	result, err := h.service.IngestBatch(r.Context(), req)
	if err != nil {
		slog.Error("Batch ingestion failed", "kind", kind, "error", err)
		writeError(w, r, err)
		return
	}

	resp := BatchResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}
	for _, item := range result.Items {
		out := BatchItemResponse{FileName: item.FileName}
		if item.Err != nil {
			out.Error = item.Err.Error()
		} else {
			out.ContentID = item.ContentID.String()
		}
		resp.Items = append(resp.Items, out)
	}

	slog.Info("Batch ingested", "kind", kind,
		"succeeded", result.Succeeded, "failed", result.Failed)

	status := http.StatusCreated
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}
