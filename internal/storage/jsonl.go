// Package storage handles corpus persistence in JSONL format.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// This constant is shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// readJSONL decodes one value per non-empty line. validate, if non-nil, is
// called on each record and a failure aborts the read (fail-fast).
func readJSONL[T any](path, kind string, validate func(*T) error) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file returns empty slice
		}
		return nil, fmt.Errorf("opening %s file: %w", kind, err)
	}
	defer f.Close()

	return decodeJSONL(f, kind, validate)
}

func decodeJSONL[T any](r io.Reader, kind string, validate func(*T) error) ([]T, error) {
	var out []T
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", kind, lineNum, err)
		}
		if validate != nil {
			if err := validate(&v); err != nil {
				return nil, fmt.Errorf("invalid %s at line %d: %w", kind, lineNum, err)
			}
		}
		out = append(out, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}

	return out, nil
}

// writeJSONLine marshals a value and writes it as a JSONL line.
func writeJSONLine(w io.Writer, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", kind, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// writeAll writes all values to a JSONL file, replacing existing content.
func writeAll[T any](path, kind string, values []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", kind, err)
	}
	defer f.Close()

	for _, v := range values {
		if err := writeJSONLine(f, kind, v); err != nil {
			return err
		}
	}

	return nil
}
