package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasmkit/capirun/internal/runner"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Manifest    string
	ArtifactDir string
}

// CheckReport is the JSON payload for the check command.
type CheckReport struct {
	Suite      string   `json:"suite"`
	Discovered []string `json:"discovered"`
	Violations []string `json:"violations,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <root>",
		Short: "Validate the artifact set without executing",
		Long: `Discover reference artifacts and validate them against the suite.

Checks both directions: expected examples missing from the artifact
directory and artifacts not listed in the suite. Nothing is executed.

Exit codes:
  0 - Artifact set matches the suite
  1 - Missing or unexpected artifacts
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "suite manifest file (.cue, .yaml)")
	cmd.Flags().StringVar(&opts.ArtifactDir, "artifact-dir", "", "override the reference-artifact directory")

	return cmd
}

func runCheck(opts *CheckOptions, root string, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)

	manifest, err := loadManifest(opts.Manifest)
	if err != nil {
		return err
	}

	artifactDir, _ := manifest.ResolveDirs(root)
	if opts.ArtifactDir != "" {
		artifactDir = opts.ArtifactDir
	}

	found, err := runner.Discover(artifactDir, manifest.ArtifactExt)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}

	report := CheckReport{
		Suite:      manifest.Name,
		Discovered: found,
	}
	for _, verr := range runner.Validate(found, manifest.Examples) {
		report.Violations = append(report.Violations, verr.Error())
	}

	if opts.Format == "json" {
		return outputCheckJSON(cmd, report)
	}
	return outputCheckText(cmd, report)
}

func outputCheckJSON(cmd *cobra.Command, report CheckReport) error {
	response := CLIResponse{Status: "ok", Data: report}
	if len(report.Violations) > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_SUITE_MISMATCH",
			Message: fmt.Sprintf("%d violation(s) found", len(report.Violations)),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if len(report.Violations) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s) found", len(report.Violations)))
	}
	return nil
}

func outputCheckText(cmd *cobra.Command, report CheckReport) error {
	w := cmd.OutOrStdout()

	if len(report.Violations) > 0 {
		for _, v := range report.Violations {
			fmt.Fprintln(w, v)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d violation(s) found", len(report.Violations)))
	}

	fmt.Fprintf(w, "✓ %d artifacts match suite %q\n", len(report.Discovered), report.Suite)
	return nil
}
