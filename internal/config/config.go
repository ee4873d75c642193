// Package config handles the global excerpt configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/excerpt/internal/summarize"
	"github.com/matsen/excerpt/internal/tokenize"
)

// Config represents configuration stored in ~/.config/excerpt/config.yml.
type Config struct {
	Tokenizer string          `yaml:"tokenizer,omitempty"`
	Summarize SummarizeConfig `yaml:"summarize"`
	Solver    SolverConfig    `yaml:"solver"`
	Server    ServerConfig    `yaml:"server"`
	History   HistoryConfig   `yaml:"history"`
}

// SummarizeConfig holds default request parameters.
type SummarizeConfig struct {
	Algorithm         string  `yaml:"algorithm,omitempty"`
	Variant           string  `yaml:"variant,omitempty"`
	Link              string  `yaml:"link,omitempty"`
	Threshold         float64 `yaml:"threshold,omitempty"`
	SentLimit         int     `yaml:"sent_limit,omitempty"`
	CharLimit         int     `yaml:"char_limit,omitempty"`
	ImpRequire        float64 `yaml:"imp_require,omitempty"`
	MinSentenceLength int     `yaml:"min_sentence_length,omitempty"`
}

// SolverConfig controls the coverage solver.
type SolverConfig struct {
	NodeLimit       int           `yaml:"node_limit,omitempty"`
	RelaxationLimit int           `yaml:"relaxation_limit,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty"`
}

// ServerConfig controls `excerpt serve`.
type ServerConfig struct {
	Addr           string        `yaml:"addr,omitempty"`
	RateLimit      float64       `yaml:"rate_limit,omitempty"` // requests per second
	Burst          int           `yaml:"burst,omitempty"`
	MaxConcurrent  int           `yaml:"max_concurrent,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes,omitempty"`
	LogFile        string        `yaml:"log_file,omitempty"` // empty logs to stderr
	LogLevel       string        `yaml:"log_level,omitempty"`
	LogMaxSizeMB   int           `yaml:"log_max_size_mb,omitempty"`
	LogMaxBackups  int           `yaml:"log_max_backups,omitempty"`
}

// HistoryConfig controls the run history.
type HistoryConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Tokenizer: tokenize.Default,
		Summarize: SummarizeConfig{
			Algorithm: "lexrank",
		},
		Solver: SolverConfig{
			NodeLimit:       200000,
			RelaxationLimit: 400,
			Timeout:         30 * time.Second,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			RateLimit:      10,
			Burst:          20,
			MaxConcurrent:  4,
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   1 << 20,
			LogLevel:       "info",
			LogMaxSizeMB:   10,
			LogMaxBackups:  3,
		},
		History: HistoryConfig{
			Dir: DefaultHistoryDir(),
		},
	}
}

// DefaultHistoryDir returns $XDG_DATA_HOME/excerpt, defaulting to
// ~/.local/share/excerpt.
func DefaultHistoryDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, ConfigDir)
}

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks every value that has a fixed range.
func (c *Config) Validate() error {
	if !known(c.Tokenizer) {
		return fmt.Errorf("%w: tokenizer %q (valid: %s)", ErrInvalid, c.Tokenizer, strings.Join(tokenize.Names(), ", "))
	}
	if _, err := summarize.ParseAlgorithm(c.Summarize.Algorithm); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	// The coverage budget may be supplied per request.
	req := c.Request()
	req.Algorithm = ""
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Solver.NodeLimit < 0 || c.Solver.RelaxationLimit < 0 || c.Solver.Timeout < 0 {
		return fmt.Errorf("%w: solver limits must not be negative", ErrInvalid)
	}
	if c.Server.RateLimit < 0 || c.Server.Burst < 0 || c.Server.MaxConcurrent < 0 {
		return fmt.Errorf("%w: server limits must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.Server.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q (valid: debug, info, warn, error)", ErrInvalid, c.Server.LogLevel)
	}
	return nil
}

// known reports whether name is a registered tokenizer, without building it.
func known(name string) bool {
	if name == "" {
		return true
	}
	for _, n := range tokenize.Names() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Request returns a summarize.Request filled with the configured defaults.
func (c *Config) Request() summarize.Request {
	s := c.Summarize
	req := summarize.Request{
		Algorithm:         s.Algorithm,
		Variant:           s.Variant,
		Link:              s.Link,
		SentLimit:         s.SentLimit,
		CharLimit:         s.CharLimit,
		ImpRequire:        s.ImpRequire,
		MinSentenceLength: s.MinSentenceLength,
		Tokenizer:         c.Tokenizer,
	}
	// Zero is the unset value in the file.
	if s.Threshold != 0 {
		threshold := s.Threshold
		req.Threshold = &threshold
	}
	return req
}

// field binds a settable key to a config value.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("expected an integer: %w", err)
			}
			*p(c) = n
			return nil
		},
	}
}

func floatField(p func(c *Config) *float64) field {
	return field{
		get: func(c *Config) string { return strconv.FormatFloat(*p(c), 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected a number: %w", err)
			}
			*p(c) = f
			return nil
		},
	}
}

func durationField(p func(c *Config) *time.Duration) field {
	return field{
		get: func(c *Config) string { return p(c).String() },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("expected a duration: %w", err)
			}
			*p(c) = d
			return nil
		},
	}
}

var fields = map[string]field{
	"tokenizer":           stringField(func(c *Config) *string { return &c.Tokenizer }),
	"algorithm":           stringField(func(c *Config) *string { return &c.Summarize.Algorithm }),
	"variant":             stringField(func(c *Config) *string { return &c.Summarize.Variant }),
	"link":                stringField(func(c *Config) *string { return &c.Summarize.Link }),
	"threshold":           floatField(func(c *Config) *float64 { return &c.Summarize.Threshold }),
	"sent-limit":          intField(func(c *Config) *int { return &c.Summarize.SentLimit }),
	"char-limit":          intField(func(c *Config) *int { return &c.Summarize.CharLimit }),
	"imp-require":         floatField(func(c *Config) *float64 { return &c.Summarize.ImpRequire }),
	"min-sentence-length": intField(func(c *Config) *int { return &c.Summarize.MinSentenceLength }),
	"node-limit":          intField(func(c *Config) *int { return &c.Solver.NodeLimit }),
	"relaxation-limit":    intField(func(c *Config) *int { return &c.Solver.RelaxationLimit }),
	"solver-timeout":      durationField(func(c *Config) *time.Duration { return &c.Solver.Timeout }),
	"server-addr":         stringField(func(c *Config) *string { return &c.Server.Addr }),
	"rate-limit":          floatField(func(c *Config) *float64 { return &c.Server.RateLimit }),
	"burst":               intField(func(c *Config) *int { return &c.Server.Burst }),
	"max-concurrent":      intField(func(c *Config) *int { return &c.Server.MaxConcurrent }),
	"request-timeout":     durationField(func(c *Config) *time.Duration { return &c.Server.RequestTimeout }),
	"log-file":            stringField(func(c *Config) *string { return &c.Server.LogFile }),
	"log-level":           stringField(func(c *Config) *string { return &c.Server.LogLevel }),
	"history-dir":         stringField(func(c *Config) *string { return &c.History.Dir }),
	"history-disabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.History.Disabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false: %w", err)
			}
			c.History.Disabled = b
			return nil
		},
	},
}

// ErrUnknownKey is returned by Get and Set for unsupported keys.
var ErrUnknownKey = errors.New("unknown configuration key")

// NormalizeKey converts snake_case and dotted keys to kebab-case.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "_", "-")
	key = strings.TrimPrefix(key, "summarize.")
	return key
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as a string.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[NormalizeKey(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into key and validates the result. The config is left
// unchanged on error.
func (c *Config) Set(key, value string) error {
	f, ok := fields[NormalizeKey(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if NormalizeKey(key) == "history-dir" {
		next.History.Dir = ExpandTilde(next.History.Dir)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
