package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lingforce/fdeval/internal/postprocess"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls the OpenAI chat-completions API. It implements both
// Translator and Completer, so it can serve generation and blind evaluation.
type OpenAIClient struct {
	name         string
	opts         Options
	systemPrompt string
	client       *http.Client
}

// NewOpenAIClient creates a client named name, bound to opts. systemPrompt
// is the translation system prompt; pass "" to use the default.
func NewOpenAIClient(name string, opts Options, systemPrompt string) *OpenAIClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOpenAIBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if systemPrompt == "" {
		systemPrompt = DefaultTranslationSystemPrompt
	}
	return &OpenAIClient{
		name:         name,
		opts:         opts,
		systemPrompt: systemPrompt,
		client:       &http.Client{Timeout: opts.Timeout},
	}
}

func (c *OpenAIClient) Name() string {
	return c.name
}

func (c *OpenAIClient) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	start := time.Now()

	text, err := c.Complete(ctx, c.systemPrompt, BuildTranslationPrompt(req.SourceLang, req.TargetLang, req.Text), req.Seed)
	if err != nil {
		return nil, err
	}

	return &TranslateResult{
		Provider: c.name,
		Model:    c.opts.Model,
		Text:     postprocess.Clean(text),
		Latency:  time.Since(start),
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string, seed int64) (string, error) {
	if c.opts.APIKey == "" {
		return "", Permanent(fmt.Errorf("OpenAI API key required"))
	}

	body := map[string]interface{}{
		"model":       c.opts.Model,
		"temperature": c.opts.Temperature,
		"seed":        seed,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	if c.opts.MaxTokens > 0 {
		body["max_tokens"] = c.opts.MaxTokens
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", c.opts.BaseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.opts.APIKey))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", Transient(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(c.name, resp.StatusCode)
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return "", Transient(fmt.Errorf("failed to decode response: %w", err))
	}

	if len(openaiResp.Choices) == 0 {
		return "", Permanent(fmt.Errorf("empty response from API"))
	}

	return strings.TrimSpace(openaiResp.Choices[0].Message.Content), nil
}
