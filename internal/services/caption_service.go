package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patronum/backend/internal/config"
)

// System prompt for the captioning model: recount the photo in first person,
// as a story rather than a description, for visually impaired listeners.
const captionSystemPrompt = `You are a helpful assistant that recounts personal photographs for visually impaired persons. Talk in first person, as someone who is a part of the photo. You take care of it being a human and emotional summary. Give names to people, describe the situation by making up some back story for the picture and use that, it should be like a story rather than a description.`

// CaptionService generates narrative captions through the OpenAI
// chat-completions vision API.
type CaptionService struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
}

func NewCaptionService(cfg *config.Config) *CaptionService {
	return &CaptionService{
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		apiKey:      cfg.OpenAIAPIKey,
		baseURL:     strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		model:       cfg.CaptionModel,
		maxTokens:   cfg.CaptionMaxTokens,
		temperature: cfg.CaptionTemperature,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Caption requests a first-person narrative for the image at imageURL. The
// title hint, when present, changes the prompt framing only.
func (s *CaptionService) Caption(ctx context.Context, imageURL, titleHint string) (string, error) {
	userText := "Please summarize the image for me, and explain it in detail."
	if titleHint != "" {
		userText = fmt.Sprintf("%s %s", userText, titleHint)
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: captionSystemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userText},
				{Type: "image_url", ImageURL: &imageURLPart{URL: imageURL}},
			}},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode caption request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create caption request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("caption API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode caption response: %w", err)
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("caption API returned an empty caption")
	}
	return chatResp.Choices[0].Message.Content, nil
}
