package seed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

const header = "id,language,original_text,translation_human,translation_google\n"

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "finnish.csv", header+
		"fi-001,finnish,He shoved the door open.,Hän työnsi oven auki.,Hän avasi oven työntämällä.\n"+
		"fi-002,finnish,The boulder kept the gate shut.,Lohkare piti portin kiinni.,Kivi piti portin suljettuna.\n")
	writeSeedFile(t, dir, "german.csv", header+
		"de-001,german,He shoved the door open.,Er stieß die Tür auf.,Er schob die Tür auf.\n")

	loader := NewLoader(dir, []string{"finnish", "german"})
	rows, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	// File order follows the configured language order; row order follows
	// file order.
	wantIDs := []string{"fi-001", "fi-002", "de-001"}
	for i, want := range wantIDs {
		if rows[i].ID != want {
			t.Errorf("rows[%d].ID = %q, want %q", i, rows[i].ID, want)
		}
	}

	if rows[0].TranslationHuman != "Hän työnsi oven auki." {
		t.Errorf("TranslationHuman = %q", rows[0].TranslationHuman)
	}
}

func TestLoader_DeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "finnish.csv", header+
		"fi-001,finnish,a.,b.,c.\n"+
		"fi-002,finnish,d.,e.,f.\n")

	loader := NewLoader(dir, []string{"finnish"})
	first, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d differs between loads", i)
		}
	}
}

func TestLoader_NFCNormalization(t *testing.T) {
	dir := t.TempDir()
	// "ä" as a+combining diaeresis (NFD) must load as the composed rune.
	writeSeedFile(t, dir, "finnish.csv", header+
		"fi-001,finnish,text.,Ha\u0308n meni.,google.\n")

	loader := NewLoader(dir, []string{"finnish"})
	rows, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rows[0].TranslationHuman != "Hän meni." {
		t.Errorf("TranslationHuman = %q, want composed form", rows[0].TranslationHuman)
	}
}

func TestLoader_MalformedRow(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "finnish.csv", header+
		"fi-001,finnish,text.,,google.\n")

	loader := NewLoader(dir, []string{"finnish"})
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected an error")
	}

	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedRowError", err)
	}
	if malformed.Field != "translation_human" {
		t.Errorf("Field = %q, want translation_human", malformed.Field)
	}
	if malformed.Line != 2 {
		t.Errorf("Line = %d, want 2", malformed.Line)
	}
}

func TestLoader_DuplicateIdAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "finnish.csv", header+
		"row-001,finnish,a.,b.,c.\n")
	writeSeedFile(t, dir, "german.csv", header+
		"row-001,german,a.,b.,c.\n")

	loader := NewLoader(dir, []string{"finnish", "german"})
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected an error")
	}

	var dup *DuplicateIdError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateIdError", err)
	}
	if dup.ID != "row-001" {
		t.Errorf("ID = %q", dup.ID)
	}
}

func TestLoader_BadHeader(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "finnish.csv",
		"id,lang,original_text,translation_human,translation_google\n"+
			"fi-001,finnish,a.,b.,c.\n")

	loader := NewLoader(dir, []string{"finnish"})
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected a header error")
	}
}

func TestLoader_WrongFieldCount(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "finnish.csv", header+
		"fi-001,finnish,only,four\n")

	loader := NewLoader(dir, []string{"finnish"})
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected a field count error")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(t.TempDir(), []string{"finnish"})
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected an error for a missing seed file")
	}
}
