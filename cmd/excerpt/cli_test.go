package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/matsen/excerpt/internal/runner"
)

const capitalText = "東京は日本の首都である。東京の人口は多い。猫は可愛い。日本の首都は美しい。"

var (
	excerptBinary     string
	excerptBinaryOnce sync.Once
	excerptBinaryErr  error
)

// getBinary builds the excerpt binary once and returns its path.
func getBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping CLI test in short mode")
	}
	excerptBinaryOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			excerptBinaryErr = os.ErrInvalid
			return
		}

		tmpDir, err := os.MkdirTemp("", "excerpt-test-*")
		if err != nil {
			excerptBinaryErr = err
			return
		}
		excerptBinary = filepath.Join(tmpDir, "excerpt")

		cmd := exec.Command("go", "build", "-o", excerptBinary, ".")
		cmd.Dir = filepath.Dir(filename)
		if output, err := cmd.CombinedOutput(); err != nil {
			excerptBinaryErr = &buildError{output: string(output), err: err}
		}
	})
	if excerptBinaryErr != nil {
		t.Fatalf("failed to build excerpt: %v", excerptBinaryErr)
	}
	return excerptBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// testEnv is an isolated config and history location.
type testEnv struct {
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{dir: t.TempDir()}
}

// run executes excerpt with stdin and returns stdout and the exit code.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(getBinary(t), args...)
	cmd.Dir = e.dir
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(e.dir, "config"),
		"EXCERPT_HISTORY_DIR="+filepath.Join(e.dir, "history"),
		"EXCERPT_CONFIG=",
		"EXCERPT_TOKENIZER=",
	)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode()
	}
	if err != nil {
		t.Fatalf("running excerpt: %v", err)
	}
	return string(out), 0
}

func TestCLI_Summarize(t *testing.T) {
	env := newTestEnv(t)

	out, code := env.run(t, capitalText, "summarize", "--sent-limit", "1")
	if code != 0 {
		t.Fatalf("exit code %d, output: %s", code, out)
	}

	var resp runner.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, out)
	}
	if resp.Summary != "東京は日本の首都である。" {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.Cached {
		t.Error("first run should not be cached")
	}

	// The same request is answered from the history
	out, _ = env.run(t, capitalText, "summarize", "--sent-limit", "1")
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Cached {
		t.Error("second run should be cached")
	}

	// Unless the history is bypassed
	out, _ = env.run(t, capitalText, "summarize", "--sent-limit", "1", "--no-history")
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Error("--no-history should not use the cache")
	}
}

func TestCLI_SummarizeFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "doc.txt")
	if err := os.WriteFile(path, []byte(capitalText), 0644); err != nil {
		t.Fatal(err)
	}

	out, code := env.run(t, "", "summarize", "--algo", "mcp", "--char-limit", "10", "--human", path)
	if code != 0 {
		t.Fatalf("exit code %d, output: %s", code, out)
	}
	if strings.TrimSpace(out) != "日本の首都は美しい。" {
		t.Errorf("output = %q", out)
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  int
	}{
		{"empty input", "   ", []string{"summarize"}, ExitInputError},
		{"unknown algorithm", capitalText, []string{"summarize", "--algo", "textrank"}, ExitInputError},
		{"infeasible budget", capitalText, []string{"summarize", "--algo", "mcp", "--char-limit", "3"}, ExitSolver},
		{"unknown tokenizer", capitalText, []string{"summarize", "--tokenizer", "mecab"}, ExitCapability},
		{"missing file", "", []string{"summarize", "/nonexistent/doc.txt"}, ExitInputError},
		{"graph with coverage", capitalText, []string{"graph", "--algo", "mcp", "--char-limit", "10"}, ExitInputError},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := env.run(t, tt.stdin, tt.args...)
			if code != tt.want {
				t.Errorf("exit code = %d, want %d (output %s)", code, tt.want, out)
			}
			var resp ErrorResponse
			if err := json.Unmarshal([]byte(out), &resp); err != nil || resp.Error == "" {
				t.Errorf("expected JSON error, got %q", out)
			}
		})
	}
}

func TestCLI_Segment(t *testing.T) {
	env := newTestEnv(t)

	out, code := env.run(t, "太郎は「明日は晴れるだろう。」と言った。天気予報は雨だった。", "segment")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	var resp SegmentResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || resp.Sentences[0].Text != "太郎は「明日は晴れるだろう。」と言った。" {
		t.Errorf("segments = %+v", resp.Sentences)
	}
}

func TestCLI_Graph(t *testing.T) {
	env := newTestEnv(t)

	out, code := env.run(t, capitalText, "graph", "--sent-limit", "1")
	if code != 0 {
		t.Fatalf("exit code %d, output: %s", code, out)
	}
	var data struct {
		Nodes []struct {
			Type  string  `json:"type"`
			Score float64 `json:"score"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
		} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Nodes) != 4 || len(data.Edges) != 2 {
		t.Fatalf("got %d nodes and %d edges, want 4 and 2", len(data.Nodes), len(data.Edges))
	}
	if data.Nodes[0].Type != "selected" {
		t.Errorf("sentence 0 should be selected, got %q", data.Nodes[0].Type)
	}

	htmlPath := filepath.Join(env.dir, "graph.html")
	if _, code := env.run(t, capitalText, "graph", "--html", "--output", htmlPath); code != 0 {
		t.Fatalf("graph --html exit code %d", code)
	}
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "cytoscape") {
		t.Error("HTML output missing cytoscape")
	}
}

func TestCLI_History(t *testing.T) {
	env := newTestEnv(t)

	if _, code := env.run(t, capitalText, "summarize", "--sent-limit", "1"); code != 0 {
		t.Fatalf("summarize exit code %d", code)
	}

	out, code := env.run(t, "", "history")
	if code != 0 {
		t.Fatalf("history exit code %d", code)
	}
	var runs []RunSummary
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("failed to parse history: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Summary != "東京は日本の首都である。" {
		t.Fatalf("history = %+v", runs)
	}

	out, _ = env.run(t, "", "history", "search", "首都である")
	if err := json.Unmarshal([]byte(out), &runs); err != nil || len(runs) != 1 {
		t.Errorf("search returned %s", out)
	}

	if _, code := env.run(t, "", "history", "show", runs[0].Key[:8]); code != 0 {
		t.Errorf("history show exit code %d", code)
	}

	// The cache is disposable
	if err := os.Remove(filepath.Join(env.dir, "history", "runs.db")); err != nil {
		t.Fatal(err)
	}
	out, code = env.run(t, "", "history", "rebuild")
	if code != 0 {
		t.Fatalf("rebuild exit code %d", code)
	}
	var status StatusResponse
	if err := json.Unmarshal([]byte(out), &status); err != nil || status.Count != 1 {
		t.Errorf("rebuild output = %s", out)
	}
}

func TestCLI_Config(t *testing.T) {
	env := newTestEnv(t)

	out, code := env.run(t, "", "config", "algorithm", "divrank")
	if code != 0 {
		t.Fatalf("config set exit code %d: %s", code, out)
	}

	out, _ = env.run(t, "", "config", "algorithm")
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got["algorithm"] != "divrank" {
		t.Errorf("algorithm = %q, want divrank", got["algorithm"])
	}

	if _, code := env.run(t, "", "config", "algorithm", "textrank"); code != ExitConfigError {
		t.Errorf("invalid value exit code = %d, want %d", code, ExitConfigError)
	}
	if _, code := env.run(t, "", "config", "colour", "red"); code != ExitError {
		t.Errorf("unknown key exit code = %d, want %d", code, ExitError)
	}

	// The configured algorithm is used by summarize
	out, _ = env.run(t, capitalText, "summarize", "--sent-limit", "1", "--no-history")
	var resp runner.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Algorithm != "centrality/divrank/threshold" {
		t.Errorf("Algorithm = %q", resp.Algorithm)
	}
}
