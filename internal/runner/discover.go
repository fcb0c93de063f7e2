package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Discover lists the reference artifacts in dir and derives candidate
// example names by stripping the artifact extension. Names are returned
// in directory listing order and NFC-normalized, so a decomposed
// filename (as produced by some filesystems) still matches the
// expected set.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("cannot read artifact directory: %v", err)}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		names = append(names, norm.NFC.String(strings.TrimSuffix(name, ext)))
	}
	return names, nil
}
