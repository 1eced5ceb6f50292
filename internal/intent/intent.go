// Package intent decides whether a query asks for the temperature in a city.
package intent

import (
	"github.com/nadzzz/vaani/internal/lexicon"
)

// TemperatureKeywords are the words for "temperature" across the supported
// scripts, including the romanised Hindi spelling.
var TemperatureKeywords = []string{
	"taapmaan",
	"temperature",
	"तापमान",
	"તાપમાન",
	"ਤਾਪਮਾਨ",
}

// Extractor spots weather queries. Both matchers are compiled once, so an
// Extractor is cheap to call and safe to share between requests.
type Extractor struct {
	cities   *lexicon.Matcher
	keywords *lexicon.Matcher
}

// NewExtractor compiles the city lexicon and the temperature keywords.
func NewExtractor(cities []string) *Extractor {
	return &Extractor{
		cities:   lexicon.NewMatcher(cities),
		keywords: lexicon.NewMatcher(TemperatureKeywords),
	}
}

// ExtractCity returns the city a weather query refers to. A query counts as a
// weather query only when it contains both a known city and a temperature
// keyword as whole words; their order and distance do not matter. When several
// cities appear, the leftmost one is returned as written in the query.
func (e *Extractor) ExtractCity(query string) (string, bool) {
	city, ok := e.cities.Find(query)
	if !ok {
		return "", false
	}
	if !e.keywords.Contains(query) {
		return "", false
	}
	return city, true
}

// Cities returns the number of distinct city names the extractor knows.
func (e *Extractor) Cities() int { return e.cities.Len() }
