package evaluator

import "math/rand"

// Candidate sources behind the blind labels.
const (
	SourceModel  = "model"
	SourceGoogle = "google"
	SourceHuman  = "human"
)

// BlindSet holds three candidate translations shuffled under neutral labels.
// Labels maps A/B/C to the candidate text handed to the evaluation provider;
// Mapping maps the same labels back to their sources and is persisted so
// scores can be unblinded afterwards.
type BlindSet struct {
	Labels  map[string]string
	Mapping map[string]string
}

// PrepareBlindLabels shuffles the model, reference Google and human
// translations under labels A, B and C using rng. Seeding rng from the
// unit's derived seed value makes the assignment reproducible across runs.
func PrepareBlindLabels(rng *rand.Rand, model, google, human string) BlindSet {
	entries := []struct {
		source string
		text   string
	}{
		{SourceModel, model},
		{SourceGoogle, google},
		{SourceHuman, human},
	}
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})

	return BlindSet{
		Labels: map[string]string{
			"A": entries[0].text,
			"B": entries[1].text,
			"C": entries[2].text,
		},
		Mapping: map[string]string{
			"A": entries[0].source,
			"B": entries[1].source,
			"C": entries[2].source,
		},
	}
}
