package storage

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matsen/excerpt/internal/summarize"
	"golang.org/x/crypto/blake2b"
)

// PreviewRunes is the length of the stored input preview.
const PreviewRunes = 80

// Run is one recorded summarization.
type Run struct {
	Key        string            `json:"key"`
	CreatedAt  time.Time         `json:"created_at"`
	Source     string            `json:"source,omitempty"` // file name, "-" for stdin, "http" for the server
	TextLength int               `json:"text_length"`
	Preview    string            `json:"preview"`
	Request    summarize.Request `json:"request"`
	Result     *summarize.Result `json:"result"`
}

// ShortKey returns the first 12 hex digits of the key.
func (r Run) ShortKey() string {
	if len(r.Key) > 12 {
		return r.Key[:12]
	}
	return r.Key
}

// Summary returns the selected text joined into one string.
func (r Run) Summary() string {
	if r.Result == nil {
		return ""
	}
	return r.Result.Text()
}

// NewRun builds a Run for text summarized with req.
func NewRun(text string, req summarize.Request, res *summarize.Result, source string) (Run, error) {
	key, err := Key(text, req)
	if err != nil {
		return Run{}, err
	}
	req.Text = ""
	return Run{
		Key:        key,
		CreatedAt:  time.Now().UTC(),
		Source:     source,
		TextLength: utf8.RuneCountInString(text),
		Preview:    Preview(text),
		Request:    req,
		Result:     res,
	}, nil
}

// Key returns the BLAKE2b-256 hex digest identifying text summarized with
// req. The request's own Text field is ignored in favour of text.
func Key(text string, req summarize.Request) (string, error) {
	req.Text = ""
	params, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	h.Write(params)
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Preview collapses whitespace and truncates text to PreviewRunes runes.
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= PreviewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewRunes]) + "…"
}
