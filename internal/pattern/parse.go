package pattern

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads one pattern per line from path.
// Format:
//
//	# comment  → skip
//	blank line → skip
//	anything else is a pattern, surrounding whitespace trimmed
//
// Patterns are only read here; they are validated when compiled.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pattern file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pattern file %s: %w", path, err)
	}
	return patterns, nil
}
