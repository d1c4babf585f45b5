package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// Upstream error bodies are surfaced to API clients, so reads are capped.
const maxGenerationErrorBody = 8 << 10

// GenerationEnqueuer submits generation jobs to the downstream service.
type GenerationEnqueuer interface {
	Enqueue(ctx context.Context, job map[string]any, requestID string) (map[string]any, error)
}

type GenerationClient struct {
	client  *http.Client
	baseURL string
}

// NewGenerationClient builds a generation client, auto-configuring an ID token
// client for service-to-service calls when none is supplied.
func NewGenerationClient(client *http.Client, baseURL string) *GenerationClient {
	if baseURL == "" {
		panic("baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &GenerationClient{client: client, baseURL: baseURL}
}

// Enqueue posts the job to the generation service and returns the "data"
// object from its response envelope.
func (c *GenerationClient) Enqueue(ctx context.Context, job map[string]any, requestID string) (map[string]any, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("generation error: %s", extractGenerationError(resp.Body))
	}

	var envelope struct {
		Data  map[string]any `json:"data"`
		Error string         `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode generation response: %w", err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("generation error: %s", envelope.Error)
	}
	return envelope.Data, nil
}

func extractGenerationError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxGenerationErrorBody))
	if err != nil || len(data) == 0 {
		return "generation service returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}

var _ GenerationEnqueuer = (*GenerationClient)(nil)
