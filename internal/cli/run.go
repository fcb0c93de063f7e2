package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/wasmkit/capirun/internal/history"
	"github.com/wasmkit/capirun/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Manifest    string
	ArtifactDir string
	BinDir      string
	Database    string
}

// ExampleReport is the per-example entry in the JSON run report.
type ExampleReport struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	ExitCode   int    `json:"exit_code"`
	Pass       bool   `json:"pass"`
	DurationMS int64  `json:"duration_ms"`
	Output     string `json:"output,omitempty"` // captured output, failures only
}

// RunReport is the overall run report.
type RunReport struct {
	RunID    string          `json:"run_id,omitempty"`
	Suite    string          `json:"suite"`
	Executed int             `json:"executed"`
	Failed   int             `json:"failed"`
	Skipped  []string        `json:"skipped,omitempty"`
	Examples []ExampleReport `json:"examples"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Run the example suite",
		Long: `Run every non-skipped example binary in the suite.

Artifacts are discovered under <root>/third_party/wasm-c-api/example
and binaries under <root>/bin/c-api-examples unless overridden by a
manifest or flags. The discovered artifact set must match the expected
suite exactly before anything is executed.

Exit codes:
  0 - All executed examples passed
  1 - One or more examples failed, or the suite setup is broken
  2 - Command error (bad flags, unreadable manifest)

Examples:
  capirun run .
  capirun run ~/wabt --manifest suite.cue
  capirun run . --db runs.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "suite manifest file (.cue, .yaml)")
	cmd.Flags().StringVar(&opts.ArtifactDir, "artifact-dir", "", "override the reference-artifact directory")
	cmd.Flags().StringVar(&opts.BinDir, "bin-dir", "", "override the example-binary directory")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in a SQLite history database")

	return cmd
}

func runSuite(opts *RunOptions, root string, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	manifest, err := loadManifest(opts.Manifest)
	if err != nil {
		return err
	}

	// Progress lines would corrupt JSON output, so they are suppressed
	// in that mode.
	progress := io.Writer(cmd.OutOrStdout())
	if opts.Format == "json" {
		progress = io.Discard
	} else {
		fmt.Fprintln(progress, "Running c-api examples..")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	startedAt := time.Now()
	summary, err := runner.Run(ctx, runner.Options{
		Root:        root,
		Manifest:    manifest,
		ArtifactDir: opts.ArtifactDir,
		BinDir:      opts.BinDir,
		Progress:    progress,
		Logger:      slog.Default(),
	})
	if err != nil {
		// Configuration faults: broken build or setup, not a test
		// failure. The message carries the violation lines verbatim.
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
	finishedAt := time.Now()

	report := buildRunReport(summary)

	if opts.Database != "" {
		report.RunID = history.NewRunID()
		if err := recordRun(ctx, opts.Database, report.RunID, startedAt, finishedAt, summary); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		slog.Debug("run recorded", "db", opts.Database, "run_id", report.RunID)
	}

	if opts.Format == "json" {
		return outputRunJSON(cmd, report)
	}
	return outputRunText(cmd, summary)
}

func buildRunReport(summary *runner.Summary) RunReport {
	report := RunReport{
		Suite:    summary.Suite,
		Executed: summary.Executed,
		Failed:   summary.Failed,
		Skipped:  summary.Skipped,
		Examples: make([]ExampleReport, 0, len(summary.Results)),
	}
	for _, res := range summary.Results {
		entry := ExampleReport{
			Name:       res.Name,
			Path:       res.Path,
			ExitCode:   res.ExitCode,
			Pass:       res.Passed(),
			DurationMS: res.Duration.Milliseconds(),
		}
		if !res.Passed() {
			entry.Output = string(res.Output)
		}
		report.Examples = append(report.Examples, entry)
	}
	return report
}

func recordRun(ctx context.Context, dbPath, runID string, startedAt, finishedAt time.Time, summary *runner.Summary) error {
	st, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.RecordRun(ctx, history.Run{
		ID:         runID,
		Suite:      summary.Suite,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Executed:   summary.Executed,
		Failed:     summary.Failed,
	}, summary.Results)
}

func outputRunJSON(cmd *cobra.Command, report RunReport) error {
	status := "ok"
	response := CLIResponse{Status: status, Data: report}
	if report.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_EXAMPLES_FAILED",
			Message: runner.SummaryLine(report.Failed, report.Executed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d example(s) failed", report.Failed))
	}
	return nil
}

func outputRunText(cmd *cobra.Command, summary *runner.Summary) error {
	if summary.Failed > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), runner.SummaryLine(summary.Failed, summary.Executed))
		return NewExitError(ExitFailure, fmt.Sprintf("%d example(s) failed", summary.Failed))
	}
	return nil
}
