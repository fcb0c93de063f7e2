package runner

import "strings"

// Filter splits names into the subset to execute and the subset
// excluded by the skip list, preserving input order. A name is skipped
// when it starts with any skip entry (prefix match, not equality),
// mirroring the reference harness (a skip entry "threads" also excludes
// a hypothetical "threads2").
func Filter(names, skipPrefixes []string) (toRun, skipped []string) {
	toRun = make([]string, 0, len(names))
	for _, name := range names {
		if matchesPrefix(name, skipPrefixes) {
			skipped = append(skipped, name)
			continue
		}
		toRun = append(toRun, name)
	}
	return toRun, skipped
}

func matchesPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
