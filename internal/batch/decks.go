package batch

import (
	"fmt"
	"os"
	"strings"
)

// ReadDeckFile reads deck names from a file, one per line.
// Blank lines and lines starting with '#' are ignored. A deck listed more
// than once is returned once, at its first position.
func ReadDeckFile(filename string) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var decks []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		decks = append(decks, line)
	}

	return decks, nil
}
