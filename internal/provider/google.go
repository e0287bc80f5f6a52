package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// isoCodes maps seed-file language names to ISO 639-1 codes for the Cloud
// Translate API.
var isoCodes = map[string]string{
	"croatian":  "hr",
	"english":   "en",
	"finnish":   "fi",
	"french":    "fr",
	"german":    "de",
	"italian":   "it",
	"polish":    "pl",
	"spanish":   "es",
	"ukrainian": "uk",
}

// GoogleTranslateClient is a Translator backed by Google Cloud Translate v2.
// It cannot evaluate (no Completer), and it has no sampling to seed, so the
// request seed is ignored. Useful for regenerating the reference machine
// translation column.
type GoogleTranslateClient struct {
	name string
	opts Options
}

// NewGoogleTranslateClient creates a client named name. Credentials may be a
// service-account file path; when empty, application default credentials are
// used.
func NewGoogleTranslateClient(name string, opts Options) *GoogleTranslateClient {
	return &GoogleTranslateClient{name: name, opts: opts}
}

func (c *GoogleTranslateClient) Name() string {
	return c.name
}

func (c *GoogleTranslateClient) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	start := time.Now()

	targetISO, ok := isoCodes[strings.ToLower(req.TargetLang)]
	if !ok {
		return nil, Permanent(fmt.Errorf("unsupported target language %q", req.TargetLang))
	}
	targetTag, err := language.Parse(targetISO)
	if err != nil {
		return nil, Permanent(fmt.Errorf("invalid target language: %w", err))
	}

	var opts []option.ClientOption
	if c.opts.Credentials != "" {
		opts = append(opts, option.WithCredentialsFile(c.opts.Credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, Permanent(fmt.Errorf("failed to create client: %w", err))
	}
	defer client.Close()

	var translateOpts *translate.Options
	if sourceISO, ok := isoCodes[strings.ToLower(req.SourceLang)]; ok {
		sourceTag, parseErr := language.Parse(sourceISO)
		if parseErr == nil {
			translateOpts = &translate.Options{Source: sourceTag}
		}
	}

	translations, err := client.Translate(ctx, []string{req.Text}, targetTag, translateOpts)
	if err != nil {
		return nil, Transient(fmt.Errorf("translation failed: %w", err))
	}
	if len(translations) == 0 {
		return nil, Permanent(fmt.Errorf("no translation returned"))
	}

	return &TranslateResult{
		Provider: c.name,
		Model:    "translate-v2",
		Text:     strings.TrimSpace(translations[0].Text),
		Latency:  time.Since(start),
	}, nil
}
