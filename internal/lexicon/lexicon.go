// Package lexicon holds the geographic reference data used to spot city names
// in user queries.
//
// The built-in list covers Indian cities and towns state by state plus the
// larger cities of every other region, leaving out names that double as
// everyday words. A GeoNames export (cities500.txt, cities15000.txt, ...) or
// a plain one-name-per-line file can replace it at startup.
package lexicon

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

//go:embed cities.txt
var builtinCities string

// BuiltinCities returns the embedded city list.
func BuiltinCities() []string {
	cities, _ := parseCities(strings.NewReader(builtinCities))
	return cities
}

// LoadCities reads city names from path. Lines that look like GeoNames rows
// (numeric id, tab, name, ...) contribute their name column; any other
// non-blank line that is not a '#' comment is taken as a name verbatim.
func LoadCities(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lexicon: %w", err)
	}
	defer f.Close()

	cities, err := parseCities(f)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	if len(cities) == 0 {
		return nil, fmt.Errorf("lexicon %s has no city names", path)
	}
	return cities, nil
}

func parseCities(r io.Reader) ([]string, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	seen := make(map[string]struct{})
	var cities []string
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := line
		if fields := strings.Split(s.Text(), "\t"); len(fields) > 1 {
			if _, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
				name = strings.TrimSpace(fields[1])
			}
		}
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cities = append(cities, name)
	}
	return cities, s.Err()
}

// Load returns the city list from path, or the built-in list when path is empty.
func Load(path string) ([]string, error) {
	if path == "" {
		cities := BuiltinCities()
		slog.Info("using built-in city lexicon", "cities", len(cities))
		return cities, nil
	}
	cities, err := LoadCities(path)
	if err != nil {
		return nil, err
	}
	slog.Info("loaded city lexicon", "path", path, "cities", len(cities))
	return cities, nil
}
