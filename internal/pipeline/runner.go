// Package pipeline implements the resumable run controller: seed ingestion,
// per-provider generation, blind evaluation and persistence.
//
// Each (seed row, provider) pair is an independent unit of work dispatched
// with bounded parallelism. Provider failures are isolated per unit and
// recorded as terminal states; only store and configuration failures abort
// a run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lingforce/fdeval/internal"
	"github.com/lingforce/fdeval/internal/config"
	"github.com/lingforce/fdeval/internal/evaluator"
	"github.com/lingforce/fdeval/internal/provider"
	"github.com/lingforce/fdeval/internal/retry"
	"github.com/lingforce/fdeval/internal/seed"
	"github.com/lingforce/fdeval/internal/store"
)

var titleCaser = cases.Title(language.English)

// Summary reports what this run did. Units already terminal from earlier
// runs are counted as skipped, not reprocessed.
type Summary struct {
	RunID             string
	SeedRows          int
	Generated         int
	GenerationFailed  int
	GenerationSkipped int
	Evaluated         int
	EvaluationFailed  int
}

// FailedUnits is the number of units that ended in a terminal failure state
// during this run.
func (s *Summary) FailedUnits() int {
	return s.GenerationFailed + s.EvaluationFailed
}

// Runner sequences the pipeline stages over a shared Store.
type Runner struct {
	store       *store.Store
	translators map[string]provider.Translator
	evaluator   *evaluator.Evaluator
	cfg         *config.Config

	// Log receives progress lines; defaults to io.Discard.
	Log io.Writer
}

// New creates a Runner. translators must cover every provider named in the
// configuration.
func New(st *store.Store, translators []provider.Translator, ev *evaluator.Evaluator, cfg *config.Config) *Runner {
	byName := make(map[string]provider.Translator, len(translators))
	for _, t := range translators {
		byName[t.Name()] = t
	}
	return &Runner{
		store:       st,
		translators: byName,
		evaluator:   ev,
		cfg:         cfg,
		Log:         io.Discard,
	}
}

type unit struct {
	row          internal.SeedRow
	providerName string
	model        string
}

// Run executes the full pipeline: load seeds, generate missing translations,
// evaluate missing verdicts. Per-unit provider failures are recorded and do
// not abort the run; store and seed-load failures do.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	loader := seed.NewLoader(r.cfg.SeedDir, r.cfg.Languages)
	rows, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("seed load failed: %w", err)
	}

	runID := uuid.New().String()
	if err := r.store.CreateRun(ctx, runID, r.cfg.RunSeed, r.cfg.Hash()); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	for _, row := range rows {
		if err := r.store.UpsertSeedRow(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to store seed row %s: %w", row.ID, err)
		}
	}

	summary := &Summary{RunID: runID, SeedRows: len(rows)}

	if err := r.generate(ctx, rows, summary); err != nil {
		return nil, err
	}
	if err := r.evaluate(ctx, rows, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *Runner) generate(ctx context.Context, rows []internal.SeedRow, summary *Summary) error {
	statuses, err := r.store.GenerationStatuses(ctx)
	if err != nil {
		return fmt.Errorf("failed to query generation statuses: %w", err)
	}

	var units []unit
	for _, row := range rows {
		for _, pc := range r.cfg.Providers {
			if internal.IsTerminalGeneration(statuses[store.GenerationID(row.ID, pc.Name)]) {
				summary.GenerationSkipped++
				continue
			}
			units = append(units, unit{row: row, providerName: pc.Name, model: pc.Model})
		}
	}

	var generated, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	policy := retry.Policy{
		MaxAttempts: r.cfg.Retry.MaxAttempts,
		BaseDelay:   r.cfg.Retry.BackoffBase,
		Retryable:   provider.IsTransient,
	}

	for _, u := range units {
		g.Go(func() error {
			return r.generateUnit(gctx, u, policy, &generated, &failed)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary.Generated = int(generated.Load())
	summary.GenerationFailed = int(failed.Load())
	return nil
}

func (r *Runner) generateUnit(ctx context.Context, u unit, policy retry.Policy, generated, failed *atomic.Int64) error {
	tr, ok := r.translators[u.providerName]
	if !ok {
		return fmt.Errorf("no client for provider %q", u.providerName)
	}

	seedValue := DeriveSeedValue(u.row.ID, u.providerName, r.cfg.RunSeed)

	rec := internal.GenerationRecord{
		SeedID:    u.row.ID,
		Provider:  u.providerName,
		Model:     u.model,
		SeedValue: seedValue,
		Status:    internal.StatusGenerating,
	}
	if err := r.store.UpsertGenerationRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to mark unit generating: %w", err)
	}

	req := provider.TranslateRequest{
		Text:       u.row.OriginalText,
		SourceLang: "English",
		TargetLang: titleCaser.String(u.row.Language),
		Seed:       seedValue,
	}

	var result *provider.TranslateResult
	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		res, terr := tr.Translate(ctx, req)
		if terr != nil {
			return terr
		}
		if res.Text == "" {
			return provider.Permanent(fmt.Errorf("empty translation from %s", u.providerName))
		}
		result = res
		return nil
	})

	if err != nil {
		// A cancelled run leaves the unit in its last recorded state for
		// resumption; a provider failure is a terminal outcome for this
		// unit only.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rec.Status = internal.StatusGenerationFailed
		rec.Error = err.Error()
		rec.Attempts = attempts
		if serr := r.store.UpsertGenerationRecord(ctx, rec); serr != nil {
			return fmt.Errorf("failed to record generation failure: %w", serr)
		}
		failed.Add(1)
		fmt.Fprintf(r.Log, "generation failed: %s/%s: %v\n", u.row.ID, u.providerName, err)
		return nil
	}

	rec.Status = internal.StatusGenerated
	rec.TranslationText = result.Text
	rec.Attempts = attempts
	rec.LatencyMs = result.Latency.Milliseconds()
	if serr := r.store.UpsertGenerationRecord(ctx, rec); serr != nil {
		return fmt.Errorf("failed to record generation: %w", serr)
	}
	generated.Add(1)
	return nil
}

func (r *Runner) evaluate(ctx context.Context, rows []internal.SeedRow, summary *Summary) error {
	pending, err := r.store.ListUnevaluated(ctx)
	if err != nil {
		return fmt.Errorf("failed to query unevaluated records: %w", err)
	}

	rowByID := make(map[string]internal.SeedRow, len(rows))
	for _, row := range rows {
		rowByID[row.ID] = row
	}

	var evaluated, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	policy := retry.Policy{
		MaxAttempts: r.cfg.Retry.MaxAttempts,
		BaseDelay:   r.cfg.Retry.BackoffBase,
		Retryable: func(err error) bool {
			return provider.IsTransient(err) || evaluator.IsSchemaViolation(err)
		},
	}

	for _, gen := range pending {
		g.Go(func() error {
			row, ok := rowByID[gen.SeedID]
			if !ok {
				loaded, lerr := r.store.GetSeedRow(gctx, gen.SeedID)
				if lerr != nil {
					return lerr
				}
				row = *loaded
			}
			return r.evaluateUnit(gctx, row, gen, policy, &evaluated, &failed)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	summary.Evaluated = int(evaluated.Load())
	summary.EvaluationFailed = int(failed.Load())
	return nil
}

func (r *Runner) evaluateUnit(ctx context.Context, row internal.SeedRow, gen internal.GenerationRecord, policy retry.Policy, evaluated, failed *atomic.Int64) error {
	rng := rand.New(rand.NewSource(gen.SeedValue))
	set := evaluator.PrepareBlindLabels(rng, gen.TranslationText, row.TranslationGoogle, row.TranslationHuman)

	rec := internal.EvaluationRecord{
		GenerationID: gen.ID,
		Evaluator:    r.evaluator.Name(),
		Status:       internal.StatusEvaluating,
	}
	if err := r.store.UpsertEvaluationRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to mark unit evaluating: %w", err)
	}

	var verdict *evaluator.Verdict
	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		v, verr := r.evaluator.Evaluate(ctx, row.OriginalText, set, gen.SeedValue)
		if verr != nil {
			return verr
		}
		verdict = v
		return nil
	})

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rec.Status = internal.StatusEvaluationFailed
		rec.Error = err.Error()
		rec.Attempts = attempts
		if serr := r.store.UpsertEvaluationRecord(ctx, rec); serr != nil {
			return fmt.Errorf("failed to record evaluation failure: %w", serr)
		}
		failed.Add(1)
		fmt.Fprintf(r.Log, "evaluation failed: %s: %v\n", gen.ID, err)
		return nil
	}

	verdictJSON, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to encode verdict: %w", err)
	}
	mappingJSON, err := json.Marshal(set.Mapping)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	rec.Status = internal.StatusEvaluated
	rec.VerdictJSON = string(verdictJSON)
	rec.MappingJSON = string(mappingJSON)
	rec.Rationale = verdict.Comparison
	rec.Attempts = attempts
	if serr := r.store.UpsertEvaluationRecord(ctx, rec); serr != nil {
		return fmt.Errorf("failed to record evaluation: %w", serr)
	}
	evaluated.Add(1)
	return nil
}
