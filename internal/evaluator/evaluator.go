// Package evaluator implements the blind Force Dynamics evaluation stage.
//
// The evaluation provider sees only the original sentence and three
// anonymously labelled candidate translations together with the fixed
// rubric; which system produced which candidate is withheld and persisted
// separately as the label mapping.
package evaluator

import (
	"context"

	"github.com/lingforce/fdeval/internal/provider"
)

// Evaluator issues blind evaluation requests through a completion-capable
// provider client.
type Evaluator struct {
	client provider.Completer
	system string
}

// New creates an Evaluator over client. systemPrompt overrides the default
// evaluation system prompt when non-empty.
func New(client provider.Completer, systemPrompt string) *Evaluator {
	if systemPrompt == "" {
		systemPrompt = DefaultEvaluationSystemPrompt
	}
	return &Evaluator{client: client, system: systemPrompt}
}

// Name returns the underlying provider's name.
func (e *Evaluator) Name() string {
	return e.client.Name()
}

// Evaluate requests one structured verdict for the blind set. seed is the
// unit's derived seed value, passed through for reproducible sampling.
// Parsing failures surface as *SchemaViolationError, transport failures as
// the provider error taxonomy; both are left to the caller's retry policy.
func (e *Evaluator) Evaluate(ctx context.Context, originalText string, set BlindSet, seed int64) (*Verdict, error) {
	prompt := buildPrompt(originalText, set.Labels["A"], set.Labels["B"], set.Labels["C"])

	raw, err := e.client.Complete(ctx, e.system, prompt, seed)
	if err != nil {
		return nil, err
	}

	return ParseVerdict(raw)
}
