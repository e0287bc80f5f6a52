// Package store persists seed rows, generation records and evaluation
// verdicts in a local SQLite database.
//
// The store is append-mostly: upserts are idempotent on their natural keys
// and terminal records are never silently overwritten. Foreign keys are
// enforced so an evaluation can never reference a generation that does not
// exist.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lingforce/fdeval/internal"
)

type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the database at dbPath and applies the
// schema. The parent directory is created when missing.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		run_seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS seed_rows (
		id TEXT PRIMARY KEY,
		language TEXT NOT NULL,
		original_text TEXT NOT NULL,
		translation_human TEXT NOT NULL,
		translation_google TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS generation_records (
		id TEXT PRIMARY KEY,
		seed_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT,
		translation_text TEXT NOT NULL DEFAULT '',
		seed_value INTEGER NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		attempts INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(seed_id, provider),
		FOREIGN KEY (seed_id) REFERENCES seed_rows(id)
	);

	CREATE TABLE IF NOT EXISTS evaluation_records (
		id TEXT PRIMARY KEY,
		generation_id TEXT NOT NULL UNIQUE,
		evaluator TEXT NOT NULL,
		verdict_json TEXT NOT NULL DEFAULT '',
		mapping_json TEXT NOT NULL DEFAULT '',
		rationale TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		attempts INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (generation_id) REFERENCES generation_records(id)
	);

	CREATE INDEX IF NOT EXISTS idx_generation_seed ON generation_records(seed_id, provider);
	CREATE INDEX IF NOT EXISTS idx_generation_status ON generation_records(status);
	CREATE INDEX IF NOT EXISTS idx_evaluation_generation ON evaluation_records(generation_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun records the provenance of one pipeline invocation.
func (s *Store) CreateRun(ctx context.Context, id string, runSeed int64, configHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, run_seed, config_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, runSeed, configHash, time.Now().UTC())
	return err
}

// UpsertSeedRow inserts or refreshes a seed row keyed by id.
func (s *Store) UpsertSeedRow(ctx context.Context, row internal.SeedRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seed_rows (id, language, original_text, translation_human, translation_google)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			original_text = excluded.original_text,
			translation_human = excluded.translation_human,
			translation_google = excluded.translation_google`,
		row.ID, row.Language, row.OriginalText, row.TranslationHuman, row.TranslationGoogle)
	return err
}

// GetSeedRow returns the seed row with the given id.
func (s *Store) GetSeedRow(ctx context.Context, id string) (*internal.SeedRow, error) {
	var row internal.SeedRow
	err := s.db.QueryRowContext(ctx,
		`SELECT id, language, original_text, translation_human, translation_google FROM seed_rows WHERE id = ?`,
		id).Scan(&row.ID, &row.Language, &row.OriginalText, &row.TranslationHuman, &row.TranslationGoogle)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("seed row not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GenerationID returns the stable record id for a (seed row, provider) pair.
func GenerationID(seedID, provider string) string {
	return fmt.Sprintf("%s_%s", seedID, provider)
}

// EvaluationID returns the stable record id for a generation's evaluation.
func EvaluationID(generationID string) string {
	return fmt.Sprintf("%s_eval", generationID)
}

// UpsertGenerationRecord inserts or updates the record keyed by
// (seed_id, provider). The record id stays stable across updates so
// evaluation foreign keys remain valid.
func (s *Store) UpsertGenerationRecord(ctx context.Context, rec internal.GenerationRecord) error {
	if rec.ID == "" {
		rec.ID = GenerationID(rec.SeedID, rec.Provider)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_records (id, seed_id, provider, model, translation_text, seed_value, status, error, attempts, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(seed_id, provider) DO UPDATE SET
			model = excluded.model,
			translation_text = excluded.translation_text,
			seed_value = excluded.seed_value,
			status = excluded.status,
			error = excluded.error,
			attempts = excluded.attempts,
			latency_ms = excluded.latency_ms`,
		rec.ID, rec.SeedID, rec.Provider, rec.Model, rec.TranslationText, rec.SeedValue, rec.Status, rec.Error, rec.Attempts, rec.LatencyMs)
	return err
}

// GetGenerationRecord returns the record for a (seed row, provider) pair.
func (s *Store) GetGenerationRecord(ctx context.Context, seedID, providerName string) (*internal.GenerationRecord, bool, error) {
	var rec internal.GenerationRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seed_id, provider, model, translation_text, seed_value, status, error, attempts, latency_ms, created_at
		 FROM generation_records WHERE seed_id = ? AND provider = ?`,
		seedID, providerName).Scan(
		&rec.ID, &rec.SeedID, &rec.Provider, &rec.Model, &rec.TranslationText,
		&rec.SeedValue, &rec.Status, &rec.Error, &rec.Attempts, &rec.LatencyMs, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// GenerationStatuses returns the status of every generation record keyed by
// (seed_id, provider) via GenerationID. Used by the pipeline to skip
// terminal units when resuming.
func (s *Store) GenerationStatuses(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seed_id, provider, status FROM generation_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make(map[string]string)
	for rows.Next() {
		var seedID, providerName, status string
		if err := rows.Scan(&seedID, &providerName, &status); err != nil {
			return nil, err
		}
		statuses[GenerationID(seedID, providerName)] = status
	}
	return statuses, rows.Err()
}

// ListUnevaluated returns generation records with status generated that have
// no terminal evaluation yet, in stable (seed_id, provider) order.
func (s *Store) ListUnevaluated(ctx context.Context) ([]internal.GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.seed_id, g.provider, g.model, g.translation_text, g.seed_value, g.status, g.error, g.attempts, g.latency_ms, g.created_at
		 FROM generation_records g
		 LEFT JOIN evaluation_records e ON e.generation_id = g.id
		 WHERE g.status = ? AND (e.id IS NULL OR e.status NOT IN (?, ?))
		 ORDER BY g.seed_id, g.provider`,
		internal.StatusGenerated, internal.StatusEvaluated, internal.StatusEvaluationFailed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []internal.GenerationRecord
	for rows.Next() {
		var rec internal.GenerationRecord
		if err := rows.Scan(
			&rec.ID, &rec.SeedID, &rec.Provider, &rec.Model, &rec.TranslationText,
			&rec.SeedValue, &rec.Status, &rec.Error, &rec.Attempts, &rec.LatencyMs, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpsertEvaluationRecord inserts or updates the record keyed by
// generation_id. The referenced generation record must exist; the database
// rejects orphans.
func (s *Store) UpsertEvaluationRecord(ctx context.Context, rec internal.EvaluationRecord) error {
	if rec.ID == "" {
		rec.ID = EvaluationID(rec.GenerationID)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluation_records (id, generation_id, evaluator, verdict_json, mapping_json, rationale, status, error, attempts)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(generation_id) DO UPDATE SET
			evaluator = excluded.evaluator,
			verdict_json = excluded.verdict_json,
			mapping_json = excluded.mapping_json,
			rationale = excluded.rationale,
			status = excluded.status,
			error = excluded.error,
			attempts = excluded.attempts`,
		rec.ID, rec.GenerationID, rec.Evaluator, rec.VerdictJSON, rec.MappingJSON, rec.Rationale, rec.Status, rec.Error, rec.Attempts)
	return err
}

// GetEvaluationRecord returns the evaluation for a generation record.
func (s *Store) GetEvaluationRecord(ctx context.Context, generationID string) (*internal.EvaluationRecord, bool, error) {
	var rec internal.EvaluationRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, generation_id, evaluator, verdict_json, mapping_json, rationale, status, error, attempts, created_at
		 FROM evaluation_records WHERE generation_id = ?`,
		generationID).Scan(
		&rec.ID, &rec.GenerationID, &rec.Evaluator, &rec.VerdictJSON, &rec.MappingJSON,
		&rec.Rationale, &rec.Status, &rec.Error, &rec.Attempts, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

// StageSummary counts terminal and in-flight records per stage.
type StageSummary struct {
	SeedRows          int
	Generated         int
	GenerationFailed  int
	GenerationPending int
	Evaluated         int
	EvaluationFailed  int
}

// Summary aggregates record counts across both stages.
func (s *Store) Summary(ctx context.Context) (*StageSummary, error) {
	sum := &StageSummary{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seed_rows`).Scan(&sum.SeedRows); err != nil {
		return nil, err
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status NOT IN (?, ?) THEN 1 ELSE 0 END), 0)
		FROM generation_records`,
		internal.StatusGenerated, internal.StatusGenerationFailed,
		internal.StatusGenerated, internal.StatusGenerationFailed).Scan(
		&sum.Generated, &sum.GenerationFailed, &sum.GenerationPending)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM evaluation_records`,
		internal.StatusEvaluated, internal.StatusEvaluationFailed).Scan(
		&sum.Evaluated, &sum.EvaluationFailed)
	if err != nil {
		return nil, err
	}

	return sum, nil
}

// ScoreRow is one evaluated unit joined with its provenance, as consumed by
// the report command.
type ScoreRow struct {
	SeedID      string
	Language    string
	Provider    string
	Model       string
	VerdictJSON string
	MappingJSON string
}

// ListScores returns every successful evaluation joined with its generation
// and seed row, in stable order.
func (s *Store) ListScores(ctx context.Context) ([]ScoreRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.seed_id, sr.language, g.provider, g.model, e.verdict_json, e.mapping_json
		 FROM evaluation_records e
		 JOIN generation_records g ON e.generation_id = g.id
		 JOIN seed_rows sr ON g.seed_id = sr.id
		 WHERE e.status = ?
		 ORDER BY g.provider, sr.language, g.seed_id`,
		internal.StatusEvaluated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ScoreRow
	for rows.Next() {
		var r ScoreRow
		if err := rows.Scan(&r.SeedID, &r.Language, &r.Provider, &r.Model, &r.VerdictJSON, &r.MappingJSON); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
