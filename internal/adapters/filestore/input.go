// Package filestore contains file-based persistence for generator input,
// XML artifacts, and the manifest.
package filestore

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/example/jbatch/internal/core/material"
)

// ReadInputLines reads a generator input file: one material identifier per
// line, surrounding whitespace trimmed, blank lines and '#' comments
// skipped. Original line numbers are preserved for error reporting.
func ReadInputLines(path string) ([]material.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	defer f.Close()

	var lines []material.Line
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, material.Line{Number: n, ID: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return lines, nil
}
