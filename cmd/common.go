/*
Copyright © 2025 The fdeval authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/lingforce/fdeval/internal/config"
	"github.com/lingforce/fdeval/internal/evaluator"
	"github.com/lingforce/fdeval/internal/provider"
)

// Default API key environment variables per provider kind, used when the
// configuration does not name one.
var defaultKeyEnvs = map[string]string{
	config.KindOpenAI: "OPENAI_API_KEY",
	config.KindGemini: "GEMINI_API_KEY",
}

func resolveAPIKey(kind, keyEnv string) string {
	if keyEnv == "" {
		keyEnv = defaultKeyEnvs[kind]
	}
	if keyEnv == "" {
		return ""
	}
	return os.Getenv(keyEnv)
}

// buildTranslators constructs one generation client per configured provider.
func buildTranslators(cfg *config.Config) ([]provider.Translator, error) {
	var list []provider.Translator

	for _, pc := range cfg.Providers {
		opts := provider.Options{
			Model:       pc.Model,
			Temperature: pc.Temperature,
			MaxTokens:   pc.MaxTokens,
			BaseURL:     pc.BaseURL,
			APIKey:      resolveAPIKey(pc.Kind, pc.APIKeyEnv),
			Credentials: pc.Credentials,
		}

		switch pc.Kind {
		case config.KindOpenAI:
			list = append(list, provider.NewOpenAIClient(pc.Name, opts, cfg.Prompts.TranslationSystem))
		case config.KindGemini:
			list = append(list, provider.NewGeminiClient(pc.Name, opts, cfg.Prompts.TranslationSystem))
		case config.KindGoogleV2:
			list = append(list, provider.NewGoogleTranslateClient(pc.Name, opts))
		default:
			return nil, fmt.Errorf("unknown provider kind: %s", pc.Kind)
		}
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}
	return list, nil
}

// buildEvaluator constructs the blind-evaluation client.
func buildEvaluator(cfg *config.Config) (*evaluator.Evaluator, error) {
	ec := cfg.Evaluator
	opts := provider.Options{
		Model:     ec.Model,
		MaxTokens: ec.MaxTokens,
		BaseURL:   ec.BaseURL,
		APIKey:    resolveAPIKey(ec.Kind, ec.APIKeyEnv),
	}

	var client provider.Completer
	switch ec.Kind {
	case config.KindOpenAI:
		client = provider.NewOpenAIClient("eval-"+ec.Kind, opts, "")
	case config.KindGemini:
		client = provider.NewGeminiClient("eval-"+ec.Kind, opts, "")
	default:
		return nil, fmt.Errorf("evaluator kind %q cannot produce structured verdicts", ec.Kind)
	}

	return evaluator.New(client, cfg.Prompts.EvaluationSystem), nil
}
