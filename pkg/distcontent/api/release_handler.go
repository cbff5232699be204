package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

// 2 GiB upper bound for release artifacts.
const maxReleaseUploadBytes = 2 << 30

// ReleaseHandler handles HTTP requests for software releases and their
// targeting.
type ReleaseHandler struct {
	service distcontent.Service
}

// NewReleaseHandler creates a new release handler
func NewReleaseHandler(service distcontent.Service) *ReleaseHandler {
	return &ReleaseHandler{service: service}
}

// Routes returns the routes for releases
func (h *ReleaseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateRelease)
	r.Get("/", h.ListReleases)
	r.Get("/{id}", h.GetRelease)
	r.Delete("/{id}", h.DeleteRelease)
	r.Post("/{id}/publish", h.PublishRelease)
	r.Get("/{id}/targets", h.GetReleaseTargets)

	// Targeting pickers
	r.Get("/distributors", h.ListDistributors)
	r.Get("/devices", h.SearchDevices)

	return r
}

// ReleaseResponse is the response body for a created release. Warning
// is set when the release was created and targeted but the requested
// immediate publish failed.
type ReleaseResponse struct {
	Release   *distcontent.Release `json:"release"`
	Published bool                 `json:"published"`
	Warning   string               `json:"warning,omitempty"`
}

// CreateRelease runs the release publication flow from a multipart
// form: metadata fields, one artifact file, and the targeting
// selection for the chosen mode.
func (h *ReleaseHandler) CreateRelease(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReleaseUploadBytes); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := distcontent.CreateReleaseRequest{
		Name:           r.FormValue("name"),
		Version:        r.FormValue("version"),
		ReleaseType:    distcontent.ReleaseType(r.FormValue("release_type")),
		Description:    r.FormValue("description"),
		Mandatory:      parseFormBool(r.FormValue("mandatory")),
		Notify:         parseFormBool(r.FormValue("notify")),
		PublishNow:     parseFormBool(r.FormValue("publish_now")),
		Targeting:      distcontent.TargetingMode(r.FormValue("targeting")),
		DistributorIDs: r.Form["distributor_ids"],
		DeviceIDs:      r.Form["device_ids"],
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

	if file, fh, err := r.FormFile("file"); err == nil {
		defer file.Close()
		req.File = &distcontent.PendingFile{
			FileName:  fh.Filename,
			Format:    strings.TrimPrefix(filepath.Ext(fh.Filename), "."),
			SizeBytes: fh.Size,
			Data:      file,
		}
	}

	result, err := h.service.CreateRelease(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create release", "name", req.Name, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Release created", "release_id", result.Release.ID.String(),
		"name", result.Release.Name, "published", result.Published)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ReleaseResponse{
		Release:   result.Release,
		Published: result.Published,
		Warning:   result.Warning,
	})
}

// GetRelease retrieves a release by ID.
func (h *ReleaseHandler) GetRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := h.releaseID(w, r)
	if !ok {
		return
	}

	release, err := h.service.GetRelease(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, release)
}

// ListReleases lists all releases.
func (h *ReleaseHandler) ListReleases(w http.ResponseWriter, r *http.Request) {
	releases, err := h.service.ListReleases(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, releases)
}

// PublishRelease publishes an existing draft release.
func (h *ReleaseHandler) PublishRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := h.releaseID(w, r)
	if !ok {
		return
	}

	if err := h.service.PublishRelease(r.Context(), id); err != nil {
		slog.Error("Failed to publish release", "release_id", id.String(), "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Release published", "release_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// GetReleaseTargets returns the bound targets for a release.
func (h *ReleaseHandler) GetReleaseTargets(w http.ResponseWriter, r *http.Request) {
	id, ok := h.releaseID(w, r)
	if !ok {
		return
	}

	targets, err := h.service.GetReleaseTargets(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, targets)
}

// DeleteRelease removes a release with its targets and artifact.
func (h *ReleaseHandler) DeleteRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := h.releaseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRelease(r.Context(), id); err != nil {
		slog.Error("Failed to delete release", "release_id", id.String(), "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Release deleted", "release_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// ListDistributors lists distributor organizations for the targeting
// picker.
func (h *ReleaseHandler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	distributors, err := h.service.ListDistributors(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, distributors)
}

// SearchDevices searches devices by name or serial number for the
// targeting picker.
func (h *ReleaseHandler) SearchDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.service.SearchDevices(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, devices)
}

func (h *ReleaseHandler) releaseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid release ID", "release_id", idStr, "error", err)
		http.Error(w, "Invalid release ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func parseFormBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
