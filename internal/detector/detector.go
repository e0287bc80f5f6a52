// Package detector wraps the lingua-go language detector.
//
// Detection over the full language set is slow to build and less accurate;
// callers that know which languages can occur should use NewFor.
package detector

import (
	lingua "github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over every language lingua knows.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

// NewFor builds a detector restricted to the given candidate languages.
// Lingua needs at least two candidates to discriminate; callers passing
// fewer get the full-language detector instead.
func NewFor(languages []lingua.Language) *Detector {
	if len(languages) < 2 {
		return New()
	}
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return lang.IsoCode639_1().String(), true
}
