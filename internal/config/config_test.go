package config

import (
	"errors"
	"testing"
	"time"
)

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"coverage without budget", func(c *Config) { c.Summarize.Algorithm = "mcp" }, false},
		{"kagome tokenizer", func(c *Config) { c.Tokenizer = "kagome" }, false},
		{"unknown tokenizer", func(c *Config) { c.Tokenizer = "mecab" }, true},
		{"unknown algorithm", func(c *Config) { c.Summarize.Algorithm = "textrank" }, true},
		{"unknown link", func(c *Config) { c.Summarize.Link = "fuzzy" }, true},
		{"importance above one", func(c *Config) { c.Summarize.ImpRequire = 2 }, true},
		{"negative node limit", func(c *Config) { c.Solver.NodeLimit = -1 }, true},
		{"negative burst", func(c *Config) { c.Server.Burst = -1 }, true},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"tokenizer", "kagome", "kagome"},
		{"sent-limit", "3", "3"},
		{"char_limit", "200", "200"},
		{"summarize.imp_require", "0.5", "0.5"},
		{"request-timeout", "1m", "1m0s"},
		{"history-disabled", "true", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := Defaults()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error = %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestSet_Errors(t *testing.T) {
	cfg := Defaults()

	if err := cfg.Set("nexus-path", "/tmp"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(unknown) error = %v, want ErrUnknownKey", err)
	}
	if err := cfg.Set("sent-limit", "three"); err == nil {
		t.Error("Set(sent-limit, three) should fail")
	}
	if err := cfg.Set("imp-require", "1.5"); !errors.Is(err, ErrInvalid) {
		t.Errorf("Set(imp-require, 1.5) error = %v, want ErrInvalid", err)
	}
	if cfg.Summarize.ImpRequire != 0 {
		t.Errorf("failed Set modified config: imp_require = %v", cfg.Summarize.ImpRequire)
	}
	if _, err := cfg.Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(unknown) error = %v", err)
	}
}

func TestRequest(t *testing.T) {
	cfg := Defaults()
	cfg.Summarize.Algorithm = "clexrank"
	cfg.Summarize.SentLimit = 4
	cfg.Solver.Timeout = time.Second

	req := cfg.Request()
	if req.Algorithm != "clexrank" || req.SentLimit != 4 || req.Tokenizer != "script" {
		t.Errorf("Request() = %+v", req)
	}
}
