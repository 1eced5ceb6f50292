package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nadzzz/vaani/internal/language"
)

func writePersonas(t *testing.T, dir string, skip language.Language) {
	t.Helper()
	for _, l := range language.All() {
		if l == skip {
			continue
		}
		p := filepath.Join(dir, l.String()+".txt")
		if err := os.WriteFile(p, []byte("persona "+l.String()), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePersonas(t, dir, "")

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, l := range language.All() {
		got, ok := s.Prompt(l)
		if !ok {
			t.Fatalf("no persona for %s", l)
		}
		if got != "persona "+l.String() {
			t.Fatalf("want %q, got %q", "persona "+l.String(), got)
		}
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	writePersonas(t, dir, language.Gujarati)

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for missing gujarati persona")
	}
}

func TestLoadBlankFileFails(t *testing.T) {
	dir := t.TempDir()
	writePersonas(t, dir, "")
	if err := os.WriteFile(filepath.Join(dir, "hindi.txt"), []byte(" \n\t"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for blank hindi persona")
	}
}

func TestLoadShippedPersonas(t *testing.T) {
	if _, err := Load(filepath.Join("..", "..", "personalities")); err != nil {
		t.Fatalf("shipped personas: %v", err)
	}
}

func TestNewRequiresEveryLanguage(t *testing.T) {
	if _, err := New(map[language.Language]string{language.English: "hi"}); err == nil {
		t.Fatalf("expected error for incomplete persona map")
	}
}
