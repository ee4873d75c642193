package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type scriptClass int

const (
	classNone scriptClass = iota
	classHan
	classHiragana
	classKatakana
	classLetter
	classDigit
)

// Script is a dictionary-free tokenizer. Text is NFKC-normalized and
// lowercased, then split into maximal runs of a single script class.
// Punctuation, symbols and spaces separate tokens and are never emitted.
//
// Han, Katakana and multi-letter alphabetic runs are content words unless
// they appear in the stopword list. Hiragana runs and digits are function
// words. Surface holds the normalized run, not the original bytes.
type Script struct {
	stopwords map[string]bool
}

// NewScript creates a Script tokenizer with the built-in English stopwords.
func NewScript() *Script {
	return &Script{stopwords: englishStopwords}
}

// Tokenize implements Tokenizer.
func (s *Script) Tokenize(text string) ([]Token, error) {
	normalized := strings.ToLower(norm.NFKC.String(text))

	var tokens []Token
	var run []rune
	current := classNone

	emit := func() {
		if len(run) == 0 {
			return
		}
		word := string(run)
		tokens = append(tokens, Token{
			Surface: word,
			Base:    word,
			Content: s.isContent(word, current, len(run)),
		})
		run = run[:0]
	}

	for _, r := range normalized {
		class := classify(r)
		if class != current {
			emit()
			current = class
		}
		if class != classNone {
			run = append(run, r)
		}
	}
	emit()

	return tokens, nil
}

func (s *Script) isContent(word string, class scriptClass, n int) bool {
	switch class {
	case classHan, classKatakana:
		return !s.stopwords[word]
	case classLetter:
		return n > 1 && !s.stopwords[word]
	default:
		return false
	}
}

func classify(r rune) scriptClass {
	switch {
	case r == 'ー' || unicode.Is(unicode.Katakana, r):
		return classKatakana
	case unicode.Is(unicode.Hiragana, r):
		return classHiragana
	case unicode.Is(unicode.Han, r):
		return classHan
	case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
		return classLetter
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classNone
	}
}

var englishStopwords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "am", "an", "and",
	"any", "are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does", "doing",
	"down", "during", "each", "few", "for", "from", "further", "had", "has", "have",
	"having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more",
	"most", "my", "myself", "no", "nor", "not", "now", "of", "off", "on", "once",
	"only", "or", "other", "our", "ours", "ourselves", "out", "over", "own", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their", "theirs",
	"them", "themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "we", "were",
	"what", "when", "where", "which", "while", "who", "whom", "why", "will", "with",
	"would", "you", "your", "yours", "yourself", "yourselves",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
