package internal

import "time"

// SeedRow is one sentence of seed data with its reference translations.
// Rows are immutable once loaded.
type SeedRow struct {
	ID                string `json:"id"`
	Language          string `json:"language"`
	OriginalText      string `json:"original_text"`
	TranslationHuman  string `json:"translation_human"`
	TranslationGoogle string `json:"translation_google"`
}

// Unit-of-work states. A (seed row, provider) pair moves strictly forward:
// pending → generating → generated|generation_failed, then for generated
// units evaluating → evaluated|evaluation_failed. Terminal states are never
// revisited.
const (
	StatusPending          = "pending"
	StatusGenerating       = "generating"
	StatusGenerated        = "generated"
	StatusGenerationFailed = "generation_failed"
	StatusEvaluating       = "evaluating"
	StatusEvaluated        = "evaluated"
	StatusEvaluationFailed = "evaluation_failed"
)

// IsTerminalGeneration reports whether a generation status needs no further work.
func IsTerminalGeneration(status string) bool {
	return status == StatusGenerated || status == StatusGenerationFailed
}

// IsTerminalEvaluation reports whether an evaluation status needs no further work.
func IsTerminalEvaluation(status string) bool {
	return status == StatusEvaluated || status == StatusEvaluationFailed
}

// GenerationRecord is one provider translation of one seed row. Exactly one
// record exists per (SeedID, Provider) pair; it is written once with a
// terminal status and never silently overwritten.
type GenerationRecord struct {
	ID              string    `json:"id"`
	SeedID          string    `json:"seed_id"`
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	TranslationText string    `json:"translation_text"`
	SeedValue       int64     `json:"seed_value"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	Attempts        int       `json:"attempts"`
	LatencyMs       int64     `json:"latency_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

// EvaluationRecord is the blind verdict for one GenerationRecord. The
// label→source mapping is stored so scores can be unblinded downstream.
type EvaluationRecord struct {
	ID           string    `json:"id"`
	GenerationID string    `json:"generation_id"`
	Evaluator    string    `json:"evaluator"`
	VerdictJSON  string    `json:"verdict_json,omitempty"`
	MappingJSON  string    `json:"mapping_json,omitempty"`
	Rationale    string    `json:"rationale,omitempty"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
}

// Run records the provenance of one pipeline invocation.
type Run struct {
	ID         string    `json:"id"`
	RunSeed    int64     `json:"run_seed"`
	ConfigHash string    `json:"config_hash"`
	CreatedAt  time.Time `json:"created_at"`
}
