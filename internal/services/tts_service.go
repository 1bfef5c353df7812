package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patronum/backend/internal/config"
)

// TTSService narrates caption text through the Google Cloud Text-to-Speech
// REST API. Voice, language and speaking rate are fixed per deployment.
type TTSService struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	languageCode string
	voiceName    string
	speakingRate float64
}

func NewTTSService(cfg *config.Config) *TTSService {
	return &TTSService{
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		apiKey:       cfg.GoogleTTSAPIKey,
		baseURL:      strings.TrimSuffix(cfg.TTSBaseURL, "/"),
		languageCode: cfg.TTSLanguageCode,
		voiceName:    cfg.TTSVoiceName,
		speakingRate: cfg.TTSSpeakingRate,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts text to MP3 audio bytes.
func (s *TTSService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = s.languageCode
	reqBody.Voice.Name = s.voiceName
	reqBody.AudioConfig.AudioEncoding = "MP3"
	reqBody.AudioConfig.SpeakingRate = s.speakingRate
	reqBody.AudioConfig.Pitch = 0.0

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text:synthesize?key=%s", s.baseURL, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS API returned status %d: %s", resp.StatusCode, string(body))
	}

	var synthResp synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synthResp); err != nil {
		return nil, fmt.Errorf("failed to decode synthesis response: %w", err)
	}
	if synthResp.AudioContent == "" {
		return nil, fmt.Errorf("TTS API returned empty audio")
	}

	audio, err := base64.StdEncoding.DecodeString(synthResp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	return audio, nil
}
