package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient implements ChatClient against the chat completions API.
type OpenAIClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOpenAIClient creates a ChatClient for OpenAI-compatible endpoints.
func NewOpenAIClient(cfg Config, observer Observer) *OpenAIClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OpenAIClient{cfg: cfg, http: newHTTPClient(), observer: observer}
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	body := openAIRequest{
		Model:       c.cfg.Model,
		Messages:    toWireMessages(req.Messages),
		Temperature: c.cfg.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/chat/completions"

	var resp openAIResponse
	err := postJSON(ctx, c.http, url, headers, body, &resp)
	if err != nil {
		err = classifyError(ctx, ProviderOpenAI, err)
	} else if resp.Error != nil {
		err = fmt.Errorf("openai api error: %s", resp.Error.Message)
	} else if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		err = ErrEmptyResponse
	}

	latency := observeCall(c.observer, ProviderOpenAI, c.cfg.Model, start, err)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Text:      resp.Choices[0].Message.Content,
		Model:     resp.Model,
		LatencyMs: latency,
	}, nil
}
