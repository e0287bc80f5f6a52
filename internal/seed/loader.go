// Package seed reads per-language seed CSV files into ordered SeedRow slices.
//
// Loading is a pure read: files are consumed in the configured language
// order and rows in file order, so repeated loads of the same input always
// produce the same sequence.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lingforce/fdeval/internal"
)

// Required header of every seed file, in order.
var requiredColumns = []string{"id", "language", "original_text", "translation_human", "translation_google"}

// MalformedRowError reports a row missing a required field.
type MalformedRowError struct {
	File  string
	Line  int
	Field string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s:%d: missing or empty field %q", e.File, e.Line, e.Field)
}

// DuplicateIdError reports an id appearing twice across the combined input.
type DuplicateIdError struct {
	ID   string
	File string
	Line int
}

func (e *DuplicateIdError) Error() string {
	return fmt.Sprintf("%s:%d: duplicate seed id %q", e.File, e.Line, e.ID)
}

// Loader reads seed files from a directory, one <language>.csv per language.
type Loader struct {
	dir       string
	languages []string
}

// NewLoader creates a Loader over dir for the given language order.
func NewLoader(dir string, languages []string) *Loader {
	return &Loader{dir: dir, languages: languages}
}

// Load reads every configured language file and returns the combined rows.
// Any malformed row or duplicate id aborts the whole load.
func (l *Loader) Load() ([]internal.SeedRow, error) {
	var rows []internal.SeedRow
	seen := make(map[string]bool)

	for _, lang := range l.languages {
		path := filepath.Join(l.dir, lang+".csv")
		fileRows, err := l.loadFile(path, seen)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fileRows...)
	}

	return rows, nil
}

func (l *Loader) loadFile(path string, seen map[string]bool) ([]internal.SeedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(requiredColumns)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", path, err)
	}
	for i, col := range requiredColumns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("%s: header column %d is %q, want %q", path, i, header[i], col)
		}
	}

	var rows []internal.SeedRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		for i, col := range requiredColumns {
			if strings.TrimSpace(record[i]) == "" {
				return nil, &MalformedRowError{File: path, Line: line, Field: col}
			}
		}

		row := internal.SeedRow{
			ID:                normalizeField(record[0]),
			Language:          normalizeField(record[1]),
			OriginalText:      normalizeField(record[2]),
			TranslationHuman:  normalizeField(record[3]),
			TranslationGoogle: normalizeField(record[4]),
		}

		if seen[row.ID] {
			return nil, &DuplicateIdError{ID: row.ID, File: path, Line: line}
		}
		seen[row.ID] = true

		rows = append(rows, row)
	}

	return rows, nil
}

// normalizeField trims whitespace and applies Unicode NFC normalization so
// the same text always maps to the same stored value.
func normalizeField(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
