// Package sentence defines the sentence unit and the bracket-aware segmenter
// that produces it.
package sentence

import (
	"strings"
	"unicode/utf8"
)

// Sentence is an immutable slice of the source text.
type Sentence struct {
	Text   string `json:"text"`
	Length int    `json:"length"` // Length in runes, not bytes
	Index  int    `json:"index"`  // Zero-based position in the source
}

// New creates a Sentence at the given position.
func New(text string, index int) Sentence {
	return Sentence{
		Text:   text,
		Length: utf8.RuneCountInString(text),
		Index:  index,
	}
}

// Trimmed returns the sentence text without surrounding whitespace.
func (s Sentence) Trimmed() string {
	return strings.TrimSpace(s.Text)
}

// Texts returns the raw text of each sentence.
func Texts(sentences []Sentence) []string {
	texts := make([]string, len(sentences))
	for i, s := range sentences {
		texts[i] = s.Text
	}
	return texts
}

// TotalLength returns the summed rune length of the sentences.
func TotalLength(sentences []Sentence) int {
	total := 0
	for _, s := range sentences {
		total += s.Length
	}
	return total
}
