package evaluator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Assessment is the verdict for a single blind label.
type Assessment struct {
	Description string  `json:"description"`
	Relation    string  `json:"relation"`
	Score       float64 `json:"score"`
}

// Verdict is the parsed, validated evaluation result keyed by blind label.
type Verdict struct {
	Labels     map[string]Assessment `json:"labels"`
	Comparison string                `json:"comparison"`
}

// SchemaViolationError reports an evaluation response that could not be
// parsed into the verdict schema. Retryable: models occasionally produce
// malformed JSON and succeed on a second attempt.
type SchemaViolationError struct {
	Reason string
	Raw    string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("verdict schema violation: %s", e.Reason)
}

// IsSchemaViolation reports whether err is a SchemaViolationError.
func IsSchemaViolation(err error) bool {
	var sv *SchemaViolationError
	return errors.As(err, &sv)
}

// wireVerdict matches the flat JSON shape the evaluation prompt requests.
type wireVerdict struct {
	ADescription string   `json:"translation_A_description"`
	ARelation    string   `json:"translation_A_relation"`
	AScore       *float64 `json:"translation_A_score"`
	BDescription string   `json:"translation_B_description"`
	BRelation    string   `json:"translation_B_relation"`
	BScore       *float64 `json:"translation_B_score"`
	CDescription string   `json:"translation_C_description"`
	CRelation    string   `json:"translation_C_relation"`
	CScore       *float64 `json:"translation_C_score"`
	Comparison   string   `json:"comparison"`
}

// ParseVerdict extracts and validates a Verdict from a raw model response.
// Code fences are stripped first; if the remainder is not a bare JSON object
// the first {...} span is tried before giving up.
func ParseVerdict(raw string) (*Verdict, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, &SchemaViolationError{Reason: "no JSON object found", Raw: raw}
	}

	var wire wireVerdict
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &SchemaViolationError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: raw}
	}

	verdict := &Verdict{
		Labels:     make(map[string]Assessment, 3),
		Comparison: strings.TrimSpace(wire.Comparison),
	}

	entries := []struct {
		label       string
		description string
		relation    string
		score       *float64
	}{
		{"A", wire.ADescription, wire.ARelation, wire.AScore},
		{"B", wire.BDescription, wire.BRelation, wire.BScore},
		{"C", wire.CDescription, wire.CRelation, wire.CScore},
	}

	for _, e := range entries {
		if e.score == nil {
			return nil, &SchemaViolationError{Reason: fmt.Sprintf("missing score for translation %s", e.label), Raw: raw}
		}
		if *e.score < 0 || *e.score > 1 {
			return nil, &SchemaViolationError{Reason: fmt.Sprintf("score %v for translation %s out of range [0, 1]", *e.score, e.label), Raw: raw}
		}
		relation := strings.ToLower(strings.TrimSpace(e.relation))
		if !fdRelations[relation] {
			return nil, &SchemaViolationError{Reason: fmt.Sprintf("unknown force relation %q for translation %s", e.relation, e.label), Raw: raw}
		}
		verdict.Labels[e.label] = Assessment{
			Description: strings.TrimSpace(e.description),
			Relation:    relation,
			Score:       *e.score,
		}
	}

	return verdict, nil
}

// extractJSON strips markdown code fences and, when the text is not a bare
// object, falls back to the outermost {...} span.
func extractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}") {
		return cleaned
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return cleaned[start : end+1]
}
