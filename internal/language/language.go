// Package language defines the closed set of languages vaani can answer in.
//
// Every per-language table in the daemon (personas, weather sentences, TTS
// voices) is keyed by Language, and All is the single source of truth for
// which keys those tables must carry.
package language

// Language is a supported language tag as it appears on the wire ("hindi").
type Language string

const (
	Punjabi  Language = "punjabi"
	Marathi  Language = "marathi"
	Gujarati Language = "gujarati"
	Hindi    Language = "hindi"
	English  Language = "english"
)

// all preserves the order personas are loaded and reported in.
var all = []Language{Punjabi, Marathi, Gujarati, Hindi, English}

// isoCodes maps each language to its ISO-639-1 code.
var isoCodes = map[Language]string{
	Punjabi:  "pa",
	Marathi:  "mr",
	Gujarati: "gu",
	Hindi:    "hi",
	English:  "en",
}

// All returns the supported languages. The returned slice is a copy.
func All() []Language {
	out := make([]Language, len(all))
	copy(out, all)
	return out
}

// Parse returns the Language named by s. Matching is exact: the wire format
// uses lowercase names only.
func Parse(s string) (Language, bool) {
	l := Language(s)
	_, ok := isoCodes[l]
	return l, ok
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := isoCodes[l]
	return ok
}

// ISO returns the ISO-639-1 code for l, or "" if l is unsupported.
func (l Language) ISO() string { return isoCodes[l] }

func (l Language) String() string { return string(l) }
