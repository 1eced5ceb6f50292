// Package persona loads the per-language system prompts that condition the
// chat completion backend.
package persona

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nadzzz/vaani/internal/language"
)

// Store maps every supported language to its persona prompt.
// It is immutable once loaded and safe for concurrent reads.
type Store struct {
	prompts map[language.Language]string
}

// Load reads <dir>/<language>.txt for every supported language.
// A missing, unreadable or blank file is an error: the daemon must not start
// with a language it cannot answer in.
func Load(dir string) (*Store, error) {
	prompts := make(map[language.Language]string, len(language.All()))
	for _, lang := range language.All() {
		path := filepath.Join(dir, lang.String()+".txt")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading persona for %s: %w", lang, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return nil, fmt.Errorf("persona for %s is empty: %s", lang, path)
		}
		prompts[lang] = string(data)
	}
	slog.Info("personas loaded", "dir", dir, "languages", len(prompts))
	return &Store{prompts: prompts}, nil
}

// New builds a Store from an in-memory map. Every supported language must be
// present with a non-blank prompt.
func New(prompts map[language.Language]string) (*Store, error) {
	out := make(map[language.Language]string, len(prompts))
	for _, lang := range language.All() {
		p, ok := prompts[lang]
		if !ok || strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("missing persona for %s", lang)
		}
		out[lang] = p
	}
	return &Store{prompts: out}, nil
}

// Prompt returns the persona prompt for lang.
func (s *Store) Prompt(lang language.Language) (string, bool) {
	p, ok := s.prompts[lang]
	return p, ok
}
