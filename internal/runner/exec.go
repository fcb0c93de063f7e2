package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// execute launches one example binary with no arguments, working
// directory set to binDir and stderr merged into stdout, then waits for
// it to terminate and drains its output. The child and its pipes are
// fully released before execute returns, so nothing leaks across
// iterations. There is deliberately no timeout: a hung example blocks
// the run, matching the reference harness.
func execute(ctx context.Context, name, exe, binDir string) (ExampleResult, error) {
	res := ExampleResult{Name: name, Path: exe}

	cmd := exec.CommandContext(ctx, exe)
	cmd.Dir = binDir

	start := time.Now()
	output, err := cmd.CombinedOutput()
	res.Duration = time.Since(start)
	res.Output = output

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		// The binary existed at the Stat check but could not be
		// launched (permissions, ENOEXEC). Treat as a setup fault.
		return res, &ConfigError{Message: fmt.Sprintf("cannot execute %s: %v", exe, err)}
	}
	return res, nil
}
