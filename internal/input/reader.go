// Package input reads candidate domains from a stream, one per line.
package input

import (
	"bufio"
	"io"
	"strings"
)

// Read reads lines from r, trims whitespace, and returns non-empty lines.
// Blank lines and lines that are only whitespace are dropped. Validation
// happens later in the batch orchestrator, not here.
func Read(r io.Reader) ([]string, error) {
	var domains []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			domains = append(domains, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return domains, nil
}
