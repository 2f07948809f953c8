package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/whittle/internal/domain"
	"google.golang.org/genai"
)

// generateFunc matches genai's Models.GenerateContent so tests can stub it.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiClient implements ChatClient using Google's Gemini API.
type GeminiClient struct {
	cfg      Config
	generate generateFunc
	observer Observer
}

// NewGeminiClient creates a Gemini-backed ChatClient.
func NewGeminiClient(ctx context.Context, cfg Config, observer Observer) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, ProviderGemini)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &GeminiClient{cfg: cfg, generate: client.Models.GenerateContent, observer: observer}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	system, contents := toGeminiContents(req.Messages)
	temp := float32(c.cfg.Temperature)
	genCfg := &genai.GenerateContentConfig{Temperature: &temp}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	var text string
	resp, err := c.generate(ctx, c.cfg.Model, contents, genCfg)
	if err != nil {
		err = classifyError(ctx, ProviderGemini, err)
	} else if text = resp.Text(); text == "" {
		err = ErrEmptyResponse
	}

	latency := observeCall(c.observer, ProviderGemini, c.cfg.Model, start, err)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{Text: text, Model: c.cfg.Model, LatencyMs: latency}, nil
}

// toGeminiContents splits system messages out into a single instruction and
// maps the rest onto Gemini's user/model roles.
func toGeminiContents(msgs []Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
