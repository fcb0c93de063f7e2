package cli

import (
	"log/slog"
	"os"

	"github.com/wasmkit/capirun/internal/suite"
)

// loadManifest returns the suite from --manifest, or the built-in
// wasm-c-api suite when no manifest file was given.
func loadManifest(path string) (*suite.Manifest, error) {
	if path == "" {
		return suite.Default(), nil
	}
	m, err := suite.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load manifest", err)
	}
	return m, nil
}

// setupLogging configures the default slog logger on stderr. Progress
// output required by the harness contract goes to stdout and is not
// routed through the logger.
func setupLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
