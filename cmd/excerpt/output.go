package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/excerpt/internal/pdf"
	"github.com/matsen/excerpt/internal/summarize"
)

// Constants for output formatting.
const (
	DefaultHistoryLimit = 20 // Default limit for history list/search
	PreviewMaxRunes     = 60 // Text shown per run in history listings
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps a summarize error to its exit code.
func exitCodeFor(err error) int {
	switch {
	case summarize.IsInput(err):
		return ExitInputError
	case summarize.IsConvergence(err):
		return ExitConvergence
	case summarize.IsSolver(err):
		return ExitSolver
	case summarize.IsCapability(err):
		return ExitCapability
	default:
		return ExitError
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// readInput reads the document named by args: a file path, "-" or
// nothing for stdin. PDF files are converted to text. The second return
// value labels the source.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "-", nil
	}

	path := args[0]
	if pdf.IsPDF(path) {
		text, err := pdf.ExtractText(path, 0)
		if err != nil {
			return "", "", err
		}
		return text, path, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), path, nil
}

// truncateRunes shortens s to maxRunes runes, adding "..." if truncated.
func truncateRunes(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes-3]) + "..."
}
