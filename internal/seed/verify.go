package seed

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/lingforce/fdeval/internal"
	"github.com/lingforce/fdeval/internal/detector"
)

// knownLanguages maps the language names used in seed files to lingua
// languages. Names outside this map are skipped during verification.
var knownLanguages = map[string]lingua.Language{
	"croatian":  lingua.Croatian,
	"english":   lingua.English,
	"finnish":   lingua.Finnish,
	"french":    lingua.French,
	"german":    lingua.German,
	"italian":   lingua.Italian,
	"polish":    lingua.Polish,
	"spanish":   lingua.Spanish,
	"ukrainian": lingua.Ukrainian,
}

// minVerifyLength is the minimum rune count for reliable detection; shorter
// texts pass without verification.
const minVerifyLength = 20

// Issue flags a row whose human translation does not look like its declared
// language. Issues are advisory; loading still succeeds.
type Issue struct {
	RowID    string
	Declared string
	Detected string
}

// VerifyLanguages runs language detection over the human translations and
// returns one Issue per row whose detected language disagrees with the
// declared one. Rows with unknown declared languages or texts too short to
// detect are skipped.
func VerifyLanguages(rows []internal.SeedRow) []Issue {
	candidates := []lingua.Language{lingua.English}
	wanted := make(map[string]lingua.Language)
	for _, row := range rows {
		name := strings.ToLower(row.Language)
		lang, ok := knownLanguages[name]
		if !ok {
			continue
		}
		if _, dup := wanted[name]; !dup {
			wanted[name] = lang
			candidates = append(candidates, lang)
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	det := detector.NewFor(candidates)

	var issues []Issue
	for _, row := range rows {
		declared, ok := knownLanguages[strings.ToLower(row.Language)]
		if !ok {
			continue
		}
		if len([]rune(row.TranslationHuman)) < minVerifyLength {
			continue
		}
		detected, ok := det.Detect(row.TranslationHuman)
		if !ok {
			continue
		}
		if detected != declared {
			issues = append(issues, Issue{
				RowID:    row.ID,
				Declared: row.Language,
				Detected: detected.String(),
			})
		}
	}

	return issues
}
