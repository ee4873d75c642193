// Package storage keeps the run history: an append-only JSONL log that is
// the source of truth, and an ephemeral SQLite cache rebuilt from it.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines.
// Runs carry their selected sentences, so lines can be long.
const MaxJSONLLineCapacity = 16 * 1024 * 1024

// ReadAll reads all runs from a JSONL file.
func ReadAll(path string) ([]Run, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file returns empty slice
		}
		return nil, fmt.Errorf("opening runs file: %w", err)
	}
	defer f.Close()

	var runs []Run
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var run Run
		if err := json.Unmarshal(line, &run); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		runs = append(runs, run)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading runs file: %w", err)
	}

	return runs, nil
}

// Append adds a run to the end of a JSONL file.
func Append(path string, run Run) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening runs file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encoding run: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing run: %w", err)
	}

	return nil
}

// WriteAll writes all runs to a JSONL file, replacing existing content.
func WriteAll(path string, runs []Run) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating runs file: %w", err)
	}
	defer f.Close()

	for i, run := range runs {
		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("encoding run %d: %w", i, err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing run %d: %w", i, err)
		}
	}

	return nil
}

// FindByKey searches for a run by key or key prefix. The latest match wins.
func FindByKey(runs []Run, key string) (int, bool) {
	if key == "" {
		return -1, false
	}
	for i := len(runs) - 1; i >= 0; i-- {
		if len(runs[i].Key) >= len(key) && runs[i].Key[:len(key)] == key {
			return i, true
		}
	}
	return -1, false
}
