package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visumlabs/distributor-content/pkg/distcontent/adminuser"
)

func TestAdminHandler_CreateUser_Success(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req adminuser.CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ops@visum.example", req.Email)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(adminuser.CreateResult{
			UserID:         "usr-100",
			AdminCreated:   true,
			ProfileCreated: true,
		})
	}))
	defer backend.Close()

	client := adminuser.New(adminuser.Config{Endpoint: backend.URL, APIKey: "test-key"})
	router := chi.NewRouter()
	router.Mount("/", NewAdminHandler(client).Routes())

	body, err := json.Marshal(CreateUserRequest{
		Email:    "ops@visum.example",
		Password: "s3cret",
		FullName: "Ops Admin",
		Role:     "admin",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp CreateUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "usr-100", resp.UserID)
	assert.Empty(t, resp.Warning)
}

func TestAdminHandler_CreateUser_PartialProfileWarns(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(adminuser.CreateResult{
			UserID:         "usr-101",
			AdminCreated:   true,
			ProfileCreated: false,
		})
	}))
	defer backend.Close()

	client := adminuser.New(adminuser.Config{Endpoint: backend.URL, APIKey: "test-key"})
	router := chi.NewRouter()
	router.Mount("/", NewAdminHandler(client).Routes())

	body, err := json.Marshal(CreateUserRequest{Email: "ops@visum.example", Password: "s3cret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// The identity exists, so creation succeeds with a warning rather
	// than failing.
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp CreateUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "usr-101", resp.UserID)
	assert.NotEmpty(t, resp.Warning)
}

func TestAdminHandler_CreateUser_NotConfigured(t *testing.T) {
	router := chi.NewRouter()
	router.Mount("/", NewAdminHandler(nil).Routes())

	body, err := json.Marshal(CreateUserRequest{Email: "ops@visum.example", Password: "s3cret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "provider_not_configured", resp.Error.Code)
}

func TestAdminHandler_CreateUser_MissingCredentials(t *testing.T) {
	client := adminuser.New(adminuser.Config{Endpoint: "http://localhost:1", APIKey: "k"})
	router := chi.NewRouter()
	router.Mount("/", NewAdminHandler(client).Routes())

	body, err := json.Marshal(CreateUserRequest{Email: "ops@visum.example"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Code)
}
