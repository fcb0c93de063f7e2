package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasmkit/capirun/internal/runner"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Manifest string
}

// SuiteReport is the JSON payload for the list command.
type SuiteReport struct {
	Suite       string   `json:"suite"`
	ArtifactExt string   `json:"artifact_ext"`
	ArtifactDir string   `json:"artifact_dir"`
	BinDir      string   `json:"bin_dir"`
	Examples    []string `json:"examples"`
	Skip        []string `json:"skip,omitempty"`
	ToRun       []string `json:"to_run"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the effective suite",
		Long: `Show the expected example set, the skip prefixes, and the subset
that would execute. No filesystem discovery is performed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "suite manifest file (.cue, .yaml)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	manifest, err := loadManifest(opts.Manifest)
	if err != nil {
		return err
	}

	toRun, _ := runner.Filter(manifest.Examples, manifest.Skip)
	report := SuiteReport{
		Suite:       manifest.Name,
		ArtifactExt: manifest.ArtifactExt,
		ArtifactDir: manifest.ArtifactDir,
		BinDir:      manifest.BinDir,
		Examples:    manifest.Examples,
		Skip:        manifest.Skip,
		ToRun:       toRun,
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: report})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Suite: %s\n", report.Suite)
	fmt.Fprintf(w, "Artifacts: %s (%s)\n", report.ArtifactDir, report.ArtifactExt)
	fmt.Fprintf(w, "Binaries: %s\n", report.BinDir)
	fmt.Fprintf(w, "Examples (%d):\n", len(report.Examples))
	for _, name := range report.Examples {
		marker := " "
		if !contains(report.ToRun, name) {
			marker = "s" // skipped
		}
		fmt.Fprintf(w, "  %s %s\n", marker, name)
	}
	fmt.Fprintf(w, "Skip prefixes: %v\n", report.Skip)
	fmt.Fprintf(w, "Would run %d of %d examples\n", len(report.ToRun), len(report.Examples))
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
