package runner

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Validate checks that the discovered name set is set-equal to the
// expected set. Both directions are always checked (collect-all, no
// short-circuit after the first category): every expected name missing
// from found, then every found name absent from expected. Any violation
// is fatal for the run.
func Validate(found, expected []string) []error {
	var errs []error

	foundSet := make(map[string]bool, len(found))
	for _, name := range found {
		foundSet[name] = true
	}
	expectedSet := make(map[string]bool, len(expected))
	for _, name := range expected {
		expectedSet[norm.NFC.String(name)] = true
	}

	for _, name := range expected {
		if !foundSet[norm.NFC.String(name)] {
			errs = append(errs, &ConfigError{Message: fmt.Sprintf("Example binary not found: %s", name)})
		}
	}
	for _, name := range found {
		if !expectedSet[name] {
			errs = append(errs, &ConfigError{Message: fmt.Sprintf("Unexpected example found: %s", name)})
		}
	}
	return errs
}

func joinConfigErrors(errs []error) error {
	return errors.Join(errs...)
}
