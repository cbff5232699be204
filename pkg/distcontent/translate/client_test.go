package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visumlabs/distributor-content/pkg/distcontent"
)

func TestTranslateUnconfiguredClient(t *testing.T) {
	c := New(Config{})
	_, err := c.Translate(context.Background(), distcontent.TranslateRequest{})
	assert.ErrorIs(t, err, distcontent.ErrProviderNotConfigured)
}

func TestTranslateSendsBearerAndDecodesResults(t *testing.T) {
	var gotAuth string
	var gotReq distcontent.TranslateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(distcontent.TranslateResponse{
			Success: true,
			Results: []distcontent.FieldResult{
				{Field: "title", Language: "de", Success: true, Translation: "Bedienungsanleitung"},
				{Field: "title", Language: "fr", Success: false, Error: "quota exceeded"},
			},
		})
	}))
	defer server.Close()

	c := New(Config{Endpoint: server.URL, APIKey: "secret-key"})
	resp, err := c.Translate(context.Background(), distcontent.TranslateRequest{
		ContentType:     "documentation",
		ContentID:       uuid.New(),
		SourceLanguage:  "en",
		TargetLanguages: []string{"de", "fr"},
		Fields:          map[string]string{"title": "User Manual"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, []string{"de", "fr"}, gotReq.TargetLanguages)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.Equal(t, "quota exceeded", resp.Results[1].Error)
}

func TestTranslateProviderNotConfiguredFromBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"translation provider not configured"}`))
	}))
	defer server.Close()

	c := New(Config{Endpoint: server.URL, APIKey: "secret-key"})
	_, err := c.Translate(context.Background(), distcontent.TranslateRequest{})
	assert.ErrorIs(t, err, distcontent.ErrProviderNotConfigured)
}

func TestTranslateErrorStatusSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(Config{Endpoint: server.URL, APIKey: "wrong"})
	_, err := c.Translate(context.Background(), distcontent.TranslateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.NotErrorIs(t, err, distcontent.ErrProviderNotConfigured)
}
