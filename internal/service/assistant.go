package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
)

// maxResponseBytes caps how much of a backend response body is read.
const maxResponseBytes = 4 << 20

// AssistantClient talks to the remote shopping assistant backend.
type AssistantClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAssistantClient(baseURL string) *AssistantClient {
	return &AssistantClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.ChatRequestTimeout},
	}
}

type ChatRequest struct {
	Query   string           `json:"query"`
	History []domain.Message `json:"history"`
}

type ChatResponse struct {
	Answer *string `json:"answer"`
}

// Ask sends the query with the conversation so far and returns the answer.
func (c *AssistantClient) Ask(ctx context.Context, query string, history []domain.Message) (string, error) {
	if c.baseURL == "" {
		return "", domain.ErrBackendNotConfigured
	}
	if history == nil {
		history = []domain.Message{}
	}

	payload, err := json.Marshal(ChatRequest{Query: query, History: history})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var chatResp ChatResponse
	if err := postJSON(ctx, c.httpClient, c.baseURL+"/api/chat", payload, &chatResp); err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}

	if chatResp.Answer == nil || strings.TrimSpace(*chatResp.Answer) == "" {
		return "", fmt.Errorf("chat request: %w: missing answer", domain.ErrMalformedResponse)
	}
	return *chatResp.Answer, nil
}

// postJSON posts payload to url and decodes a 2xx JSON body into out.
func postJSON(ctx context.Context, client *http.Client, url string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w (%d)", domain.ErrRemoteStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}
