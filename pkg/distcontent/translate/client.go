// Package translate provides the HTTP client for the serverless
// translation endpoint.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

// Config options for the translation client
type Config struct {
	Endpoint   string // Translation endpoint URL
	APIKey     string // Bearer credential
	HTTPClient *http.Client
}

// Client calls the translation endpoint. It implements
// distcontent.Translator.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// New creates a translation client. An empty endpoint or credential is
// allowed at construction; Translate then reports
// distcontent.ErrProviderNotConfigured, keeping the "service is not set
// up" case distinguishable at the call site.
func New(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		endpoint:   config.Endpoint,
		apiKey:     config.APIKey,
		httpClient: httpClient,
	}
}

// Translate sends one structured request covering every (field, language)
// combination and returns the backend's per-combination outcomes.
func (c *Client) Translate(ctx context.Context, req distcontent.TranslateRequest) (*distcontent.TranslateResponse, error) {
	if c.endpoint == "" || c.apiKey == "" {
		return nil, distcontent.ErrProviderNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode translation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("translation request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		// The backend reports a missing translation provider as an error
		// payload; keep that case distinguishable from per-language
		// failures.
		if strings.Contains(strings.ToLower(string(respBody)), "provider not configured") {
			return nil, distcontent.ErrProviderNotConfigured
		}
		return nil, fmt.Errorf("translation endpoint returned %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var resp distcontent.TranslateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	return &resp, nil
}
