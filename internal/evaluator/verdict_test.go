package evaluator

import (
	"strings"
	"testing"
)

const validVerdictJSON = `{
	"translation_A_description": "Preserves the shove as overcoming.",
	"translation_A_relation": "overcoming",
	"translation_A_score": 0.9,
	"translation_B_description": "Weakens the force relation.",
	"translation_B_relation": "causation",
	"translation_B_score": 0.6,
	"translation_C_description": "Drops the opposing force entirely.",
	"translation_C_relation": "none",
	"translation_C_score": 0.3,
	"comparison": "A is closest to the source."
}`

func TestParseVerdict(t *testing.T) {
	verdict, err := ParseVerdict(validVerdictJSON)
	if err != nil {
		t.Fatalf("ParseVerdict failed: %v", err)
	}

	if len(verdict.Labels) != 3 {
		t.Fatalf("got %d labels, want 3", len(verdict.Labels))
	}
	a := verdict.Labels["A"]
	if a.Relation != "overcoming" || a.Score != 0.9 {
		t.Errorf("label A = %+v", a)
	}
	if verdict.Comparison != "A is closest to the source." {
		t.Errorf("Comparison = %q", verdict.Comparison)
	}
}

func TestParseVerdict_CodeFences(t *testing.T) {
	fenced := "```json\n" + validVerdictJSON + "\n```"
	verdict, err := ParseVerdict(fenced)
	if err != nil {
		t.Fatalf("ParseVerdict failed on fenced input: %v", err)
	}
	if verdict.Labels["B"].Score != 0.6 {
		t.Errorf("label B score = %v", verdict.Labels["B"].Score)
	}
}

func TestParseVerdict_SurroundingProse(t *testing.T) {
	wrapped := "Sure, here is my assessment:\n" + validVerdictJSON + "\nLet me know if you need more."
	verdict, err := ParseVerdict(wrapped)
	if err != nil {
		t.Fatalf("ParseVerdict failed on wrapped input: %v", err)
	}
	if verdict.Labels["C"].Relation != "none" {
		t.Errorf("label C relation = %q", verdict.Labels["C"].Relation)
	}
}

func TestParseVerdict_RelationNormalized(t *testing.T) {
	raw := strings.Replace(validVerdictJSON, `"overcoming"`, `" Overcoming "`, 1)
	verdict, err := ParseVerdict(raw)
	if err != nil {
		t.Fatalf("ParseVerdict failed: %v", err)
	}
	if verdict.Labels["A"].Relation != "overcoming" {
		t.Errorf("relation = %q, want overcoming", verdict.Labels["A"].Relation)
	}
}

func TestParseVerdict_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no json", "I cannot evaluate these translations."},
		{"invalid json", "{not json}"},
		{"missing score", strings.Replace(validVerdictJSON, `"translation_B_score": 0.6,`, "", 1)},
		{"score above one", strings.Replace(validVerdictJSON, "0.9", "1.5", 1)},
		{"negative score", strings.Replace(validVerdictJSON, "0.3", "-0.1", 1)},
		{"unknown relation", strings.Replace(validVerdictJSON, `"causation"`, `"compulsion"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVerdict(tt.raw)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !IsSchemaViolation(err) {
				t.Errorf("error = %v, want SchemaViolationError", err)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"embedded", `prefix {"a": 1} suffix`, `{"a": 1}`},
		{"no object", "nothing here", ""},
		{"only open brace", "{truncated", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.raw); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
