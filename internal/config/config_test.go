package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
database: ./data/test.db
seed_dir: ./seeds
languages:
  - finnish
  - german
providers:
  - name: openai
    kind: openai
    model: gpt-4o
    temperature: 0.3
  - name: gemini
    model: gemini-2.0-flash
evaluator:
  kind: openai
  model: gpt-4o
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(cfg.Providers))
	}
	// A missing kind defaults to the provider name.
	if cfg.Providers[1].Kind != KindGemini {
		t.Errorf("gemini kind = %q", cfg.Providers[1].Kind)
	}

	// Defaults.
	if cfg.RunSeed != 42 {
		t.Errorf("RunSeed = %d, want 42", cfg.RunSeed)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BackoffBase != 500*time.Millisecond {
		t.Errorf("BackoffBase = %v, want 500ms", cfg.Retry.BackoffBase)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
}

func TestLoad_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "no providers",
			mutate:  func(c string) string { return strings.Split(c, "providers:")[0] + "providers: []\nevaluator:\n  kind: openai\n  model: gpt-4o\n" },
			wantErr: "at least one generation provider",
		},
		{
			name:    "unknown provider kind",
			mutate:  func(c string) string { return strings.Replace(c, "kind: openai\n    model: gpt-4o", "kind: acme\n    model: gpt-4o", 1) },
			wantErr: "unknown kind",
		},
		{
			name:    "evaluator cannot complete",
			mutate:  func(c string) string { return strings.Replace(c, "evaluator:\n  kind: openai", "evaluator:\n  kind: googlev2", 1) },
			wantErr: "cannot produce structured verdicts",
		},
		{
			name: "missing evaluator model",
			mutate: func(c string) string {
				return strings.Replace(c, "evaluator:\n  kind: openai\n  model: gpt-4o\n", "evaluator:\n  kind: openai\n", 1)
			},
			wantErr: "evaluator.model",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c string) string { return strings.Replace(c, "temperature: 0.3", "temperature: 3.5", 1) },
			wantErr: "temperature",
		},
		{
			name:    "duplicate provider name",
			mutate:  func(c string) string { return strings.Replace(c, "name: gemini", "name: openai", 1) },
			wantErr: "configured twice",
		},
		{
			name:    "no languages",
			mutate:  func(c string) string { return strings.Replace(c, "languages:\n  - finnish\n  - german\n", "languages: []\n", 1) },
			wantErr: "at least one language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mutate(validYAML)))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestConfig_Hash(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	first := cfg.Hash()
	if first == "" || len(first) != 64 {
		t.Fatalf("hash = %q", first)
	}
	if cfg.Hash() != first {
		t.Error("hash is not stable")
	}

	changed, err := Load(writeConfig(t, strings.Replace(validYAML, "temperature: 0.3", "temperature: 0.7", 1)))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if changed.Hash() == first {
		t.Error("different configs must hash differently")
	}
}
