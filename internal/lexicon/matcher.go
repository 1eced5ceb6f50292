package lexicon

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Matcher finds case-insensitive, whole-word occurrences of a fixed set of
// phrases in free text. It is built once and is safe for concurrent use.
//
// Word boundaries are Unicode-aware: letters, digits, combining marks, joiners
// and '_' are word runes, so Devanagari, Gujarati and Gurmukhi words are
// delimited the same way Latin ones are.
type Matcher struct {
	root *node
	size int
}

type node struct {
	children map[rune]*node
	terminal bool
}

// NewMatcher compiles phrases into a Matcher. Blank phrases are ignored.
func NewMatcher(phrases []string) *Matcher {
	m := &Matcher{root: &node{}}
	for _, p := range phrases {
		m.add(p)
	}
	return m
}

func (m *Matcher) add(phrase string) {
	phrase = norm.NFC.String(phrase)
	if phrase == "" {
		return
	}
	n := m.root
	for _, r := range phrase {
		r = fold(r)
		if n.children == nil {
			n.children = make(map[rune]*node)
		}
		next, ok := n.children[r]
		if !ok {
			next = &node{}
			n.children[r] = next
		}
		n = next
	}
	if !n.terminal {
		n.terminal = true
		m.size++
	}
}

// Len returns the number of distinct phrases in the matcher.
func (m *Matcher) Len() int { return m.size }

// Find returns the first phrase occurrence in text, as it is written in text.
// The leftmost match wins; among matches starting at the same position the
// longest wins, so "New Delhi" is preferred over "Delhi".
func (m *Matcher) Find(text string) (string, bool) {
	text = norm.NFC.String(text)

	runes := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))

	for start := range runes {
		if !boundaryAt(runes, start) {
			continue
		}
		end := -1
		n := m.root
		for j := start; j < len(runes); j++ {
			n = n.children[fold(runes[j])]
			if n == nil {
				break
			}
			if n.terminal && boundaryAt(runes, j+1) {
				end = j + 1
			}
		}
		if end > 0 {
			return text[offsets[start]:offsets[end]], true
		}
	}
	return "", false
}

// Contains reports whether any phrase occurs in text as a whole word.
func (m *Matcher) Contains(text string) bool {
	_, ok := m.Find(text)
	return ok
}

// boundaryAt reports whether a word boundary sits before runes[i].
func boundaryAt(runes []rune, i int) bool {
	before := i > 0 && isWordRune(runes[i-1])
	after := i < len(runes) && isWordRune(runes[i])
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' ||
		unicode.IsLetter(r) ||
		unicode.IsDigit(r) ||
		unicode.IsMark(r) ||
		unicode.Is(unicode.Join_Control, r)
}

func fold(r rune) rune { return unicode.ToLower(r) }
