package sentence

import (
	"strings"
	"unicode"
)

const (
	// DefaultDelimiters end a sentence when no bracket is open.
	DefaultDelimiters = "。．？！!?\n\r"
)

// DefaultBrackets lists opener/closer pairs tracked while scanning.
// A pair whose opener equals its closer (the ASCII double quote) toggles.
var DefaultBrackets = []string{"（）", "()", "「」", "『』", "【】", "“”", `""`}

// Segmenter splits text into sentences without breaking inside balanced
// brackets or quotes.
type Segmenter struct {
	delimiters map[rune]bool
	openers    map[rune]bool
	closers    map[rune]rune // closer -> expected opener
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithDelimiters replaces the sentence-ending characters.
func WithDelimiters(delims string) Option {
	return func(s *Segmenter) {
		s.delimiters = make(map[rune]bool)
		for _, r := range delims {
			s.delimiters[r] = true
		}
	}
}

// WithBrackets replaces the bracket table. Each pair is a two-rune string.
// Malformed pairs are ignored.
func WithBrackets(pairs ...string) Option {
	return func(s *Segmenter) {
		s.openers = make(map[rune]bool)
		s.closers = make(map[rune]rune)
		for _, p := range pairs {
			s.addPair(p)
		}
	}
}

// NewSegmenter creates a Segmenter with the default delimiters and brackets.
func NewSegmenter(opts ...Option) *Segmenter {
	s := &Segmenter{}
	WithDelimiters(DefaultDelimiters)(s)
	WithBrackets(DefaultBrackets...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Segmenter) addPair(pair string) {
	runes := []rune(pair)
	if len(runes) != 2 {
		return
	}
	s.openers[runes[0]] = true
	s.closers[runes[1]] = runes[0]
}

// Segment splits text into sentences in a single pass.
// Concatenating the Text of the returned sentences yields text exactly.
func Segment(text string) []Sentence {
	return NewSegmenter().Segment(text)
}

// Segment splits text into sentences in a single pass.
func (s *Segmenter) Segment(text string) []Sentence {
	runes := []rune(text)

	var sentences []Sentence
	var stack []rune
	var buf strings.Builder

	flush := func() {
		sentences = append(sentences, New(buf.String(), len(sentences)))
		buf.Reset()
	}

	for i, r := range runes {
		buf.WriteRune(r)

		switch {
		case s.isSymmetric(r):
			if len(stack) > 0 && stack[len(stack)-1] == r {
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, r)
			}
			continue
		case s.openers[r]:
			stack = append(stack, r)
			continue
		}

		if opener, ok := s.closers[r]; ok {
			// Unmatched closers are ignored.
			if len(stack) > 0 && stack[len(stack)-1] == opener {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		if !s.delimiters[r] || len(stack) > 0 {
			continue
		}
		if i+1 < len(runes) && s.delimiters[runes[i+1]] {
			continue
		}
		if s.isBlank(buf.String()) {
			// Leading delimiters ride along with the next sentence.
			continue
		}
		flush()
	}

	if buf.Len() > 0 {
		rest := buf.String()
		if s.isBlank(rest) && len(sentences) > 0 {
			last := sentences[len(sentences)-1]
			sentences[len(sentences)-1] = New(last.Text+rest, last.Index)
		} else {
			flush()
		}
	}

	return sentences
}

func (s *Segmenter) isSymmetric(r rune) bool {
	opener, ok := s.closers[r]
	return ok && opener == r
}

// isBlank reports whether text holds nothing but delimiters and whitespace.
func (s *Segmenter) isBlank(text string) bool {
	for _, r := range text {
		if !s.delimiters[r] && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
