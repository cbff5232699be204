// Package adminuser provides the HTTP client for the serverless admin
// user creation endpoint.
//
// The endpoint creates an authentication identity plus two profile rows
// (an administrative-role record and a generic user-profile record). When
// the second profile insert fails after the first succeeded, the
// authentication identity is NOT rolled back; the endpoint reports which
// rows were written and the caller decides whether to retry.
package adminuser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config options for the admin user client
type Config struct {
	Endpoint   string // Admin creation endpoint URL
	APIKey     string // Bearer credential
	HTTPClient *http.Client
}

// Client calls the admin user creation endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// CreateRequest is the wire request for creating an admin user.
type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// CreateResult reports what was written. ProfilePartial is set when the
// auth identity exists but one of the profile rows could not be created;
// the identity is kept.
type CreateResult struct {
	UserID         string `json:"userId"`
	AdminCreated   bool   `json:"adminCreated"`
	ProfileCreated bool   `json:"profileCreated"`
	ProfilePartial bool   `json:"-"`
	Warning        string `json:"warning,omitempty"`
}

// New creates an admin user client.
func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint:   config.Endpoint,
		apiKey:     config.APIKey,
		httpClient: httpClient,
	}
}

// Create creates an authentication identity and its profile rows.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if c.endpoint == "" {
		return nil, errors.New("admin endpoint not configured")
	}
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode admin request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build admin request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("admin request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read admin response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("admin endpoint returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result CreateResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode admin response: %w", err)
	}
	result.ProfilePartial = result.AdminCreated != result.ProfileCreated
	return &result, nil
}
