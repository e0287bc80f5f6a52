// Package report unblinds persisted verdicts and aggregates scores for the
// report command.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lingforce/fdeval/internal/evaluator"
	"github.com/lingforce/fdeval/internal/store"
)

// Group aggregates scores for one (provider, model, language, source) cell.
type Group struct {
	Provider string
	Model    string
	Language string
	Source   string
	Count    int
	Mean     float64
}

type groupKey struct {
	provider string
	model    string
	language string
	source   string
}

// Aggregate unblinds each score row through its stored label mapping and
// returns mean scores per (provider, model, language, source), in stable
// order. Rows whose verdict or mapping no longer parse are skipped and
// counted in the second return value.
func Aggregate(rows []store.ScoreRow) ([]Group, int) {
	sums := make(map[groupKey]float64)
	counts := make(map[groupKey]int)
	skipped := 0

	for _, row := range rows {
		var verdict evaluator.Verdict
		var mapping map[string]string
		if err := json.Unmarshal([]byte(row.VerdictJSON), &verdict); err != nil {
			skipped++
			continue
		}
		if err := json.Unmarshal([]byte(row.MappingJSON), &mapping); err != nil {
			skipped++
			continue
		}

		for label, assessment := range verdict.Labels {
			source, ok := mapping[label]
			if !ok {
				skipped++
				continue
			}
			key := groupKey{
				provider: row.Provider,
				model:    row.Model,
				language: row.Language,
				source:   source,
			}
			sums[key] += assessment.Score
			counts[key]++
		}
	}

	groups := make([]Group, 0, len(counts))
	for key, n := range counts {
		groups = append(groups, Group{
			Provider: key.provider,
			Model:    key.model,
			Language: key.language,
			Source:   key.source,
			Count:    n,
			Mean:     sums[key] / float64(n),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		return a.Source < b.Source
	})

	return groups, skipped
}

// WriteCSV writes the aggregated groups as scores.csv under dir, creating the
// directory when missing, and returns the written path.
func WriteCSV(dir string, groups []Group) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, "scores.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"provider", "model", "language", "source", "n", "mean_score"}); err != nil {
		return "", err
	}
	for _, g := range groups {
		record := []string{
			g.Provider,
			g.Model,
			g.Language,
			g.Source,
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.4f", g.Mean),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
