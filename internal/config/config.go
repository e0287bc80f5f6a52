// Package config loads and validates the pipeline configuration.
//
// The configuration is a YAML document read through viper and decoded once
// into typed structs. Downstream packages receive the validated Config and
// never re-check fields ad hoc.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Provider kinds understood by the factory in cmd.
const (
	KindOpenAI   = "openai"
	KindGemini   = "gemini"
	KindGoogleV2 = "googlev2"
)

// ProviderConfig describes one generation provider.
type ProviderConfig struct {
	Name        string  `mapstructure:"name" json:"name"`
	Kind        string  `mapstructure:"kind" json:"kind"`
	Model       string  `mapstructure:"model" json:"model"`
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	BaseURL     string  `mapstructure:"base_url" json:"base_url"`
	APIKeyEnv   string  `mapstructure:"api_key_env" json:"api_key_env"`
	Credentials string  `mapstructure:"credentials" json:"credentials"`
}

// EvaluatorConfig describes the blind-evaluation provider. Only completion
// capable kinds (openai, gemini) may evaluate.
type EvaluatorConfig struct {
	Kind      string `mapstructure:"kind" json:"kind"`
	Model     string `mapstructure:"model" json:"model"`
	MaxTokens int    `mapstructure:"max_tokens" json:"max_tokens"`
	BaseURL   string `mapstructure:"base_url" json:"base_url"`
	APIKeyEnv string `mapstructure:"api_key_env" json:"api_key_env"`
}

// RetryConfig controls the shared retry policy for provider calls.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" json:"max_attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base" json:"backoff_base"`
}

// PromptsConfig allows overriding the built-in system prompts.
type PromptsConfig struct {
	TranslationSystem string `mapstructure:"translation_system" json:"translation_system"`
	EvaluationSystem  string `mapstructure:"evaluation_system" json:"evaluation_system"`
}

// OutputConfig names directories for generated report artifacts.
type OutputConfig struct {
	TablesDir string `mapstructure:"tables_dir" json:"tables_dir"`
}

// Config is the full, validated pipeline configuration.
type Config struct {
	Database    string           `mapstructure:"database" json:"database"`
	SeedDir     string           `mapstructure:"seed_dir" json:"seed_dir"`
	Languages   []string         `mapstructure:"languages" json:"languages"`
	RunSeed     int64            `mapstructure:"run_seed" json:"run_seed"`
	Providers   []ProviderConfig `mapstructure:"providers" json:"providers"`
	Evaluator   EvaluatorConfig  `mapstructure:"evaluator" json:"evaluator"`
	Retry       RetryConfig      `mapstructure:"retry" json:"retry"`
	Concurrency int              `mapstructure:"concurrency" json:"concurrency"`
	Prompts     PromptsConfig    `mapstructure:"prompts" json:"prompts"`
	Output      OutputConfig     `mapstructure:"output" json:"output"`
}

// Load reads, decodes and validates the configuration at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("database", "./data/fdeval.db")
	v.SetDefault("run_seed", 42)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_base", "500ms")
	v.SetDefault("concurrency", 4)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration once at load time.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if c.SeedDir == "" {
		return fmt.Errorf("seed_dir is required")
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one generation provider is required")
	}

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %q configured twice", p.Name)
		}
		seen[p.Name] = true

		if p.Kind == "" {
			p.Kind = p.Name
		}
		switch p.Kind {
		case KindOpenAI, KindGemini, KindGoogleV2:
		default:
			return fmt.Errorf("provider %q: unknown kind %q", p.Name, p.Kind)
		}
		if p.Kind != KindGoogleV2 && p.Model == "" {
			return fmt.Errorf("provider %q: model is required", p.Name)
		}
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("provider %q: temperature %v out of range [0, 2]", p.Name, p.Temperature)
		}
	}

	switch c.Evaluator.Kind {
	case KindOpenAI, KindGemini:
	case "":
		return fmt.Errorf("evaluator.kind is required")
	default:
		return fmt.Errorf("evaluator kind %q cannot produce structured verdicts", c.Evaluator.Kind)
	}
	if c.Evaluator.Model == "" {
		return fmt.Errorf("evaluator.model is required")
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.BackoffBase <= 0 {
		return fmt.Errorf("retry.backoff_base must be positive")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	return nil
}

// Hash returns a stable SHA-256 fingerprint of the configuration, stored with
// each run so results can be traced back to the exact settings that produced
// them.
func (c *Config) Hash() string {
	payload, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
