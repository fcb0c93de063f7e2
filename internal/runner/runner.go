// Package runner implements the example-suite harness pipeline: discover
// reference artifacts, validate the discovered name set against the suite
// manifest, filter by skip prefixes, then execute each remaining example
// binary sequentially and aggregate pass/fail counts.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wasmkit/capirun/internal/suite"
)

// ConfigError reports a broken suite setup: a missing or unexpected
// artifact, or an executable absent from the binary directory. It is
// fatal for the whole run, as opposed to a per-example failure.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// ExampleResult records one executed example.
type ExampleResult struct {
	Name     string        `json:"name"`
	Path     string        `json:"path"`
	ExitCode int           `json:"exit_code"`
	Output   []byte        `json:"-"`
	Duration time.Duration `json:"-"`
}

// Passed reports whether the example exited zero.
func (r ExampleResult) Passed() bool { return r.ExitCode == 0 }

// Summary aggregates one harness run.
type Summary struct {
	Suite    string          `json:"suite"`
	Executed int             `json:"executed"`
	Failed   int             `json:"failed"`
	Skipped  []string        `json:"skipped,omitempty"`
	Results  []ExampleResult `json:"results"`
}

// Options configures a harness run.
type Options struct {
	// Root is the suite root directory; manifest-relative paths are
	// resolved against it.
	Root string

	// Manifest is the suite definition. Required.
	Manifest *suite.Manifest

	// ArtifactDir and BinDir override the manifest layout when non-empty.
	ArtifactDir string
	BinDir      string

	// Progress receives the human-readable execution stream ("Running.."
	// lines and failure diagnostics). Defaults to io.Discard.
	Progress io.Writer

	// Logger receives diagnostic logging. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o *Options) progress() io.Writer {
	if o.Progress == nil {
		return io.Discard
	}
	return o.Progress
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) dirs() (artifactDir, binDir string) {
	artifactDir, binDir = o.Manifest.ResolveDirs(o.Root)
	if o.ArtifactDir != "" {
		artifactDir = o.ArtifactDir
	}
	if o.BinDir != "" {
		binDir = o.BinDir
	}
	return artifactDir, binDir
}

// Run executes the full pipeline. It returns a Summary on success; a
// non-nil error means the run aborted on a configuration fault before
// or during execution. Per-example failures are not errors; they are
// counted in Summary.Failed.
//
// Execution is strictly sequential, in the order discovery produced.
// Child processes inherit no arguments and run with the binary
// directory as working directory, stderr merged into stdout.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Manifest == nil {
		return nil, fmt.Errorf("runner: nil manifest")
	}
	log := opts.logger()
	w := opts.progress()
	artifactDir, binDir := opts.dirs()

	found, err := Discover(artifactDir, opts.Manifest.ArtifactExt)
	if err != nil {
		return nil, err
	}
	log.Debug("artifacts discovered", "dir", artifactDir, "count", len(found))

	if errs := Validate(found, opts.Manifest.Examples); len(errs) > 0 {
		return nil, joinConfigErrors(errs)
	}

	toRun, skipped := Filter(found, opts.Manifest.Skip)
	log.Debug("suite filtered", "run", len(toRun), "skipped", len(skipped))

	summary := &Summary{
		Suite:   opts.Manifest.Name,
		Skipped: skipped,
		Results: make([]ExampleResult, 0, len(toRun)),
	}

	for _, name := range toRun {
		exe := filepath.Join(binDir, name)
		if _, err := os.Stat(exe); err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("test executable not found: %s", exe)}
		}

		summary.Executed++
		fmt.Fprintf(w, "Running.. %s\n", exe)

		res, err := execute(ctx, name, exe, binDir)
		if err != nil {
			return nil, err
		}
		summary.Results = append(summary.Results, res)

		if !res.Passed() {
			summary.Failed++
			fmt.Fprintf(w, "Failed with returncode=%d\n", res.ExitCode)
			w.Write(res.Output)
			if n := len(res.Output); n > 0 && res.Output[n-1] != '\n' {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "FAIL(%d): %s\n", res.ExitCode, exe)
			log.Debug("example failed", "name", name, "exit_code", res.ExitCode)
		} else {
			log.Debug("example passed", "name", name, "duration", res.Duration)
		}
	}

	return summary, nil
}

// SummaryLine renders the end-of-run failure summary.
func SummaryLine(failed, total int) string {
	return fmt.Sprintf("[%d/%d] c-api examples failed", failed, total)
}
