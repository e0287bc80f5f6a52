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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls the Gemini generateContent API. Gemini has no strict
// system/user separation, so both prompts are concatenated into a single
// content part; the seed goes into generationConfig for reproducible
// sampling.
type GeminiClient struct {
	name         string
	opts         Options
	systemPrompt string
	client       *http.Client
}

// NewGeminiClient creates a client named name, bound to opts. systemPrompt
// is the translation system prompt; pass "" to use the default.
func NewGeminiClient(name string, opts Options, systemPrompt string) *GeminiClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultGeminiBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if systemPrompt == "" {
		systemPrompt = DefaultTranslationSystemPrompt
	}
	return &GeminiClient{
		name:         name,
		opts:         opts,
		systemPrompt: systemPrompt,
		client:       &http.Client{Timeout: opts.Timeout},
	}
}

func (c *GeminiClient) Name() string {
	return c.name
}

func (c *GeminiClient) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
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

func (c *GeminiClient) Complete(ctx context.Context, system, user string, seed int64) (string, error) {
	if c.opts.APIKey == "" {
		return "", Permanent(fmt.Errorf("Gemini API key required"))
	}

	content := fmt.Sprintf("SYSTEM:\n%s\n\nUSER:\n%s", system, user)

	generationConfig := map[string]interface{}{
		"temperature": c.opts.Temperature,
		"seed":        seed,
	}
	if c.opts.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = c.opts.MaxTokens
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": content}}},
		},
		"generationConfig": generationConfig,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.opts.BaseURL, c.opts.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.opts.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", Transient(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(c.name, resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", Transient(fmt.Errorf("failed to decode response: %w", err))
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", Permanent(fmt.Errorf("empty response from API"))
	}

	return strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}
