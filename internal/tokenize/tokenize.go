// Package tokenize turns sentence text into the terms used to build
// term-frequency vectors.
//
// Two backends are available: "script", a dictionary-free splitter that
// groups runs of the same Unicode script, and "kagome", a morphological
// analyzer backed by the IPA dictionary.
package tokenize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnavailable is returned when a tokenizer backend is unknown or cannot
// be initialized.
var ErrUnavailable = errors.New("tokenizer unavailable")

// Token is one unit produced by a Tokenizer.
type Token struct {
	Surface string // text as it appears in the input
	Base    string // normalized base form; falls back to Surface
	Content bool   // true for content words (nouns, verbs, adjectives)
}

// Tokenizer splits text into tokens.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// Terms returns the base forms of the tokens in text.
// When contentOnly is set, function words are dropped.
func Terms(t Tokenizer, text string, contentOnly bool) ([]string, error) {
	tokens, err := t.Tokenize(text)
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if contentOnly && !tok.Content {
			continue
		}
		if tok.Base == "" {
			continue
		}
		terms = append(terms, tok.Base)
	}
	return terms, nil
}

// Default is the backend used when no name is configured.
const Default = "script"

var (
	registryMu sync.RWMutex
	registry   = map[string]func() (Tokenizer, error){
		"script": func() (Tokenizer, error) { return NewScript(), nil },
		"kagome": sharedKagome,
	}
)

// Register adds a named backend. Registering an existing name replaces it.
func Register(name string, factory func() (Tokenizer, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// New returns the tokenizer registered under name.
// An empty name selects Default.
func New(name string) (Tokenizer, error) {
	if name == "" {
		name = Default
	}
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (available: %s)",
			ErrUnavailable, name, strings.Join(Names(), ", "))
	}
	t, err := factory()
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
	}
	return t, nil
}

// Names lists the registered backend names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
