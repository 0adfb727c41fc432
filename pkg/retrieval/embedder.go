package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Embedder produces a vector embedding for a query string. Retrieval
// degrades to lexical-only when no embedder is configured or a call fails.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// openAIEmbedder calls OpenAI's embeddings endpoint with retry on
// transient failures.
type openAIEmbedder struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIEmbedder(apiKey, model string, timeout time.Duration) Embedder {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &openAIEmbedder{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	const (
		maxRetries = 3
		baseDelay  = 500 * time.Millisecond
		maxDelay   = 5 * time.Second
	)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(baseDelay) * (1.5 * float64(attempt)))
			if delay > maxDelay {
				delay = maxDelay
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		embedding, err := e.doEmbedRequest(ctx, text)
		if err == nil {
			return embedding, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("embedding request failed after %d attempts: %w", maxRetries, lastErr)
}

func (e *openAIEmbedder) doEmbedRequest(ctx context.Context, text string) ([]float32, error) {
	reqBody := embeddingRequest{Model: e.model, Input: text}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal embedding response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return parsed.Data[0].Embedding, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "status 429") || strings.Contains(errStr, "status 5") {
		return true
	}
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "context deadline exceeded") {
		return true
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") {
		return true
	}
	return false
}
