// Package api exposes the distributor content service over HTTP for the
// admin console.
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

// ContentHandler handles HTTP requests for shareable content items.
// The content kind rides in the URL so one handler serves all four
// content families.
type ContentHandler struct {
	service distcontent.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service distcontent.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content, mounted per kind:
// /api/v1/content/{kind}/...
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{kind}", func(r chi.Router) {
		r.Post("/", h.CreateContent)
		r.Get("/", h.ListContent)
		r.Get("/{id}", h.GetContent)
		r.Put("/{id}", h.UpdateContent)
		r.Delete("/{id}", h.DeleteContent)

		// Sharing resolver: the distributor allow-list per item
		r.Get("/{id}/sharing", h.GetSharing)
		r.Put("/{id}/sharing", h.SetSharing)
	})

	return r
}

// CreateContentRequest is the request body for creating a content item.
type CreateContentRequest struct {
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Version   string `json:"version,omitempty"`
	Language  string `json:"language,omitempty"`
	Status    string `json:"status,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

// SharingResponse is the response body for an item's access list. An
// empty list means the item is visible to every distributor.
type SharingResponse struct {
	DistributorIDs []uuid.UUID `json:"distributor_ids"`
}

// SetSharingRequest is the request body replacing an item's access
// list. Empty strings in the selection are treated as the console's
// "none selected" sentinel and filtered out.
type SetSharingRequest struct {
	DistributorIDs []string `json:"distributor_ids"`
}

// CreateContent creates a new content item of the kind in the URL.
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	kind := distcontent.ContentKind(chi.URLParam(r, "kind"))

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	createReq := distcontent.CreateContentRequest{
		Kind:     kind,
		Title:    req.Title,
		Category: req.Category,
		Version:  req.Version,
		Language: req.Language,
		Status:   distcontent.ContentStatus(req.Status),
	}
	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			slog.Error("Invalid product ID", "product_id", req.ProductID, "error", err)
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}
		createReq.ProductID = &productID
	}

	item, err := h.service.CreateContent(r.Context(), createReq)
	if err != nil {
		slog.Error("Failed to create content", "kind", kind, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Content created", "kind", kind, "content_id", item.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// GetContent retrieves a content item by ID.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.kindAndID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetContent(r.Context(), kind, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, item)
}

// ListContent lists all items of the kind in the URL.
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	kind := distcontent.ContentKind(chi.URLParam(r, "kind"))

	items, err := h.service.ListContent(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, items)
}

// UpdateContent replaces the mutable fields of a content item.
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.kindAndID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetContent(r.Context(), kind, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item.Title = req.Title
	item.Category = req.Category
	item.Version = req.Version
	item.Language = req.Language
	if req.Status != "" {
		item.Status = distcontent.ContentStatus(req.Status)
	}

	if err := h.service.UpdateContent(r.Context(), distcontent.UpdateContentRequest{Item: item}); err != nil {
		slog.Error("Failed to update content", "kind", kind, "content_id", id.String(), "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, item)
}

// DeleteContent removes a content item with its sharing rows and
// artifact.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.kindAndID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteContent(r.Context(), kind, id); err != nil {
		slog.Error("Failed to delete content", "kind", kind, "content_id", id.String(), "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Content deleted", "kind", kind, "content_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// GetSharing returns the distributor allow-list for an item.
func (h *ContentHandler) GetSharing(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.kindAndID(w, r)
	if !ok {
		return
	}

	ids, err := h.service.GetAccessList(r.Context(), kind, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, SharingResponse{DistributorIDs: ids})
}

// SetSharing replaces the distributor allow-list for an item. An empty
// selection makes the item visible to every distributor.
func (h *ContentHandler) SetSharing(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.kindAndID(w, r)
	if !ok {
		return
	}

	var req SetSharingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.SetAccessList(r.Context(), kind, id, req.DistributorIDs); err != nil {
		slog.Error("Failed to set sharing", "kind", kind, "content_id", id.String(), "error", err)
		writeError(w, r, err)
		return
	}

	ids, err := h.service.GetAccessList(r.Context(), kind, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, SharingResponse{DistributorIDs: ids})
}

func (h *ContentHandler) kindAndID(w http.ResponseWriter, r *http.Request) (distcontent.ContentKind, uuid.UUID, bool) {
	kind := distcontent.ContentKind(chi.URLParam(r, "kind"))

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid content ID", "content_id", idStr, "error", err)
		http.Error(w, "Invalid content ID", http.StatusBadRequest)
		return kind, uuid.Nil, false
	}

	return kind, id, true
}
