package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/skovatch/agora/internal/model"
)

const enrichSystemPrompt = "You rewrite event descriptions into a single short paragraph. " +
	"Keep every factual detail (date, time, location, speakers, cost). " +
	"Do not invent details that are not in the input. Plain text only."

// OpenAIProvider implements Provider via the Chat Completions API
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIProvider creates an OpenAI-backed provider
func NewOpenAIProvider(cfg model.LLMConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable probes the API with a lightweight model listing
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Enrich rewrites the event description, leaving all other fields alone
func (p *OpenAIProvider) Enrich(ctx context.Context, req EnrichRequest) (*EnrichResponse, error) {
	mdl := req.Model
	if mdl == "" {
		mdl = p.cfg.Model
	}
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 300
	}

	timeout := time.Duration(p.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     mdl,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: enrichSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: enrichInput(req.Event)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai enrich: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai enrich: empty response")
	}

	return &EnrichResponse{
		Description: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:       resp.Model,
		TokensUsed:  resp.Usage.TotalTokens,
	}, nil
}

func enrichInput(ev model.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", ev.Title)
	fmt.Fprintf(&b, "Date: %s %s\n", ev.Date.Format("2006-01-02"), ev.TimeOfDay)
	if ev.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", ev.Location)
	}
	fmt.Fprintf(&b, "Description: %s\n", ev.Description)
	return b.String()
}
