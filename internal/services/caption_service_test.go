package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patronum/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captionConfig(baseURL string) *config.Config {
	return &config.Config{
		OpenAIAPIKey:       "test-key",
		OpenAIBaseURL:      baseURL,
		CaptionModel:       "gpt-4o",
		CaptionMaxTokens:   300,
		CaptionTemperature: 0.95,
	}
}

func TestCaptionService_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Equal(t, 300, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		// The title hint and the image URL ride in the user content parts
		raw, err := json.Marshal(req.Messages[1].Content)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Sunset at the lake")
		assert.Contains(t, string(raw), "https://bucket.s3.amazonaws.com/photos/x.jpg")

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "I remember standing by the water..."}},
			},
		})
	}))
	defer server.Close()

	svc := NewCaptionService(captionConfig(server.URL))
	caption, err := svc.Caption(context.Background(), "https://bucket.s3.amazonaws.com/photos/x.jpg", "Sunset at the lake")
	require.NoError(t, err)
	assert.Equal(t, "I remember standing by the water...", caption)
}

func TestCaptionService_NoTitleHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, err := json.Marshal(req.Messages[1].Content)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "summarize the image")

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "a story"}},
			},
		})
	}))
	defer server.Close()

	svc := NewCaptionService(captionConfig(server.URL))
	caption, err := svc.Caption(context.Background(), "https://example.com/img.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "a story", caption)
}

func TestCaptionService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewCaptionService(captionConfig(server.URL))
	_, err := svc.Caption(context.Background(), "https://example.com/img.jpg", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCaptionService_EmptyCaption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": ""}},
			},
		})
	}))
	defer server.Close()

	svc := NewCaptionService(captionConfig(server.URL))
	_, err := svc.Caption(context.Background(), "https://example.com/img.jpg", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty caption")
}
