package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/visumlabs/distributor-content/pkg/distcontent/adminuser"
)

// AdminHandler handles admin user creation.
type AdminHandler struct {
	client *adminuser.Client
}

// NewAdminHandler creates a new admin user handler. A nil client is
// allowed; requests then report that the backend is not configured.
func NewAdminHandler(client *adminuser.Client) *AdminHandler {
	return &AdminHandler{client: client}
}

// Routes returns the routes for admin user management
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/users", h.CreateUser)
	return r
}

// CreateUserRequest is the request body for creating an admin user.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// CreateUserResponse reports the created identity. Warning is set when
// the identity exists but a profile row could not be written.
type CreateUserResponse struct {
	UserID  string `json:"user_id"`
	Warning string `json:"warning,omitempty"`
}

// CreateUser creates an authentication identity with its profile rows
// through the admin backend.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ErrorResponse{Error: ErrorBody{
			Code:    "provider_not_configured",
			Message: "admin user backend is not configured",
		}})
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: ErrorBody{
			Code:    "validation_error",
			Message: "email and password are required",
		}})
		return
	}

	result, err := h.client.Create(r.Context(), adminuser.CreateRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		slog.Error("Admin user creation failed", "email", req.Email, "error", err)
		writeError(w, r, err)
		return
	}

	resp := CreateUserResponse{UserID: result.UserID, Warning: result.Warning}
	if result.ProfilePartial && resp.Warning == "" {
		resp.Warning = "user created but a profile row was not written"
	}

	slog.Info("Admin user created", "user_id", result.UserID, "partial", result.ProfilePartial)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}
