package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "http://127.0.0.1:11434"
	DefaultModel   = "qwen3:0.6b"
	DefaultTimeout = 60 * time.Second
)

// maxResponseSize bounds the body read from the server.
const maxResponseSize = 4 << 20

// OllamaConfig holds the options of an OllamaClient.
type OllamaConfig struct {
	// BaseURL is the server root, without the /api suffix.
	BaseURL string
	// Model is the model name passed with every request.
	Model string
	// Timeout bounds a whole request, 0 selects DefaultTimeout.
	Timeout time.Duration
	// Temperature is sent when non nil.
	Temperature *float64
	// HTTPClient replaces the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// OllamaClient is a Completer backed by the Ollama chat API.
// It is safe for concurrent use.
type OllamaClient struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature *float64
}

// NewOllamaClient creates a client, filling zero values with defaults.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OllamaClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Model returns the model used for completions.
func (c *OllamaClient) Model() string {
	return c.model
}

type chatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string       `json:"model"`
	Messages []Message    `json:"messages"`
	Stream   bool         `json:"stream"`
	Options  *chatOptions `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Complete sends the conversation to /api/chat without streaming and returns
// the assistant content.
func (c *OllamaClient) Complete(ctx context.Context, messages []Message) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	}
	if c.temperature != nil {
		reqBody.Options = &chatOptions{Temperature: c.temperature}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ClientError{Kind: KindUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Kind: KindConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &ClientError{Kind: KindTimeout, Message: "chat request timed out", Cause: err}
		}

		return "", &ClientError{Kind: KindConnection, Message: "chat request failed", Cause: err}
	}
	defer drainAndClose(resp.Body)

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return "", &ClientError{Kind: KindTimeout, Message: "reading chat response timed out", Cause: err}
		}

		return "", &ClientError{Kind: KindConnection, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, payload, c.model)
	}

	var result chatResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", &ClientError{Kind: KindInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.Message.Role != "" && result.Message.Role != RoleAssistant {
		return "", &ClientError{Kind: KindInvalidResponse, Message: "unexpected role " + string(result.Message.Role)}
	}

	return result.Message.Content, nil
}

func statusError(resp *http.Response, payload []byte, model string) error {
	message := "chat request failed: " + resp.Status
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Error != "" {
		message = apiErr.Error
	}

	kind := KindStatus
	if resp.StatusCode == http.StatusNotFound {
		kind = KindModelNotFound
		if !strings.Contains(message, model) {
			message = "model " + model + ": " + message
		}
	}

	return &ClientError{Kind: kind, Message: message, StatusCode: resp.StatusCode}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }

	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

func drainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, r)
	_ = r.Close()
}

var _ Completer = (*OllamaClient)(nil)
