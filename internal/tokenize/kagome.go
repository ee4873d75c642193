package tokenize

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Kagome is a morphological tokenizer for Japanese backed by the IPA
// dictionary.
type Kagome struct {
	t *tokenizer.Tokenizer
}

var (
	kagomeOnce sync.Once
	kagomeInst *Kagome
	kagomeErr  error
)

// NewKagome loads the IPA dictionary and builds a tokenizer.
// Loading takes a noticeable amount of time; prefer New("kagome"), which
// shares a single instance per process.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Kagome{t: t}, nil
}

func sharedKagome() (Tokenizer, error) {
	kagomeOnce.Do(func() {
		kagomeInst, kagomeErr = NewKagome()
	})
	if kagomeErr != nil {
		return nil, kagomeErr
	}
	return kagomeInst, nil
}

// Tokenize implements Tokenizer.
func (k *Kagome) Tokenize(text string) ([]Token, error) {
	morphs := k.t.Tokenize(text)
	tokens := make([]Token, 0, len(morphs))
	for _, m := range morphs {
		base, ok := m.BaseForm()
		if !ok || base == "" || base == "*" {
			base = m.Surface
		}
		inflection, _ := m.InflectionalType()
		tokens = append(tokens, Token{
			Surface: m.Surface,
			Base:    base,
			Content: isContentMorph(m.Surface, m.POS(), inflection, base),
		})
	}
	return tokens, nil
}

// isContentMorph classifies a morpheme from its surface, part-of-speech
// hierarchy, inflection type and base form.
func isContentMorph(surface string, pos []string, inflection, base string) bool {
	if surface == "" || isSymbolOnly(surface) {
		return false
	}
	if len(pos) > 1 && (strings.HasPrefix(pos[1], "接尾") || strings.HasPrefix(pos[1], "非自立")) {
		return false
	}
	if inflection == "サ変・スル" || base == "ある" {
		return false
	}
	if len(pos) == 0 {
		return false
	}
	for _, keep := range []string{"名詞", "動詞", "形容詞"} {
		if strings.HasPrefix(pos[0], keep) {
			return true
		}
	}
	return false
}

// isSymbolOnly reports whether s consists only of whitespace, ASCII
// symbols and digits, CJK punctuation, or their full-width forms.
func isSymbolOnly(s string) bool {
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v':
		case r >= '!' && r <= '@':
		case r >= '[' && r <= '`':
		case r >= '{' && r <= '~':
		case r == '　':
		case r >= '、' && r <= '〜':
		case r >= '！' && r <= '＠':
		case r >= '［' && r <= '｀':
		default:
			return false
		}
	}
	return true
}
