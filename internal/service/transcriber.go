package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
)

// TranscriptionClient turns an uploaded recording into text.
type TranscriptionClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTranscriptionClient(baseURL string) *TranscriptionClient {
	return &TranscriptionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.TranscriptionTimeout},
	}
}

type TranscriptRequest struct {
	AudioURL string `json:"audioURL"`
}

// TranscriptResponse carries the text under one of two names depending on
// the backend version.
type TranscriptResponse struct {
	Transcription *string `json:"transcription"`
	Text          *string `json:"text"`
}

// Result picks the primary field and falls back to the older one when the
// primary is missing or empty.
func (r TranscriptResponse) Result() (string, bool) {
	if r.Transcription != nil && *r.Transcription != "" {
		return *r.Transcription, true
	}
	if r.Text != nil {
		return *r.Text, true
	}
	if r.Transcription != nil {
		return "", true
	}
	return "", false
}

func (c *TranscriptionClient) Configured() bool {
	return c.baseURL != ""
}

func (c *TranscriptionClient) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if c.baseURL == "" {
		return "", domain.ErrBackendNotConfigured
	}

	payload, err := json.Marshal(TranscriptRequest{AudioURL: audioURL})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var tr TranscriptResponse
	if err := postJSON(ctx, c.httpClient, c.baseURL+"/transcript", payload, &tr); err != nil {
		return "", fmt.Errorf("transcript request: %w", err)
	}

	text, ok := tr.Result()
	if !ok {
		return "", domain.ErrEmptyTranscription
	}
	return text, nil
}
