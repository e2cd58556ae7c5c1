// Package storage handles data persistence in JSONL, JSON and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/affil/internal/reference"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAll reads all papers from a JSONL file.
func ReadAll(path string) ([]reference.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file returns empty slice
		}
		return nil, fmt.Errorf("opening papers file: %w", err)
	}
	defer f.Close()

	var papers []reference.Paper
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p reference.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		papers = append(papers, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading papers file: %w", err)
	}

	return papers, nil
}

// Append adds a paper to the end of a JSONL file.
func Append(path string, p reference.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening papers file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding paper: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing paper: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}

	return nil
}

// WriteAll writes all papers to a JSONL file, replacing existing content.
func WriteAll(path string, papers []reference.Paper) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating papers file: %w", err)
	}
	defer f.Close()

	for i, p := range papers {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding paper %d: %w", i, err)
		}

		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing paper %d: %w", i, err)
		}
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	return nil
}

// FindByID searches for a paper by ID.
func FindByID(papers []reference.Paper, id string) (int, bool) {
	for i, p := range papers {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}
