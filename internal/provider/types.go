// Package provider contains the external model clients used for generation
// and evaluation, plus the transient/permanent error taxonomy the retry
// policy relies on.
package provider

import (
	"context"
	"time"
)

// Options bind a client to one configured model. They are fixed at
// construction so every request a client issues is reproducible from the
// configuration alone.
type Options struct {
	Model       string        `mapstructure:"model" json:"model"`
	Temperature float64       `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" json:"max_tokens"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
}

// TranslateRequest asks for one translation of one seed sentence. Seed is
// the deterministic sampling parameter derived by the pipeline; it is passed
// through to providers that support seeded sampling.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Seed       int64  `json:"seed"`
}

// TranslateResult is the outcome of a single translation request.
type TranslateResult struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Text     string        `json:"text"`
	Latency  time.Duration `json:"latency"`
}

// Translator produces translations. Implementations classify failures as
// transient or permanent via the helpers in errors.go.
type Translator interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error)
}

// Completer answers a free-form system+user prompt with raw text. Used by
// the blind evaluator; not every Translator can complete (Google Translate
// cannot), so this is a separate capability.
type Completer interface {
	Name() string
	Complete(ctx context.Context, system, user string, seed int64) (string, error)
}
