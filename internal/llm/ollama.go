package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// OllamaClient implements ChatClient using the Ollama HTTP API.
type OllamaClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates a ChatClient that talks to a local Ollama instance.
func NewOllamaClient(cfg Config, observer Observer) *OllamaClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OllamaClient{cfg: cfg, http: newHTTPClient(), observer: observer}
}

// ollamaRequest is the JSON body sent to POST /api/chat.
type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/chat (non-streaming).
type ollamaResponse struct {
	Model   string      `json:"model"`
	Message wireMessage `json:"message"`
}

func (c *OllamaClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	body := ollamaRequest{
		Model:    c.cfg.Model,
		Messages: toWireMessages(req.Messages),
		Stream:   false,
		Options:  ollamaOptions{Temperature: c.cfg.Temperature},
	}
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/chat"

	var resp ollamaResponse
	err := postJSON(ctx, c.http, url, nil, body, &resp)
	if err != nil {
		err = classifyError(ctx, ProviderOllama, err)
	} else if resp.Message.Content == "" {
		err = ErrEmptyResponse
	}

	latency := observeCall(c.observer, ProviderOllama, c.cfg.Model, start, err)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Text:      resp.Message.Content,
		Model:     resp.Model,
		LatencyMs: latency,
	}, nil
}

// Available checks whether the Ollama server is reachable.
func (c *OllamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
