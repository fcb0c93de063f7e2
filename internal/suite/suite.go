// Package suite defines the example-suite manifest: the expected set of
// example names, the skip prefixes, and the directory layout the harness
// consumes. The built-in manifest mirrors the upstream wasm-c-api example
// suite; alternate manifests can be loaded from CUE or YAML files.
package suite

import (
	"fmt"
	"path/filepath"
)

// Defaults for the filesystem layout, relative to the suite root.
const (
	DefaultArtifactExt = ".wasm"
)

// Manifest describes one example suite. All collections are read-only
// once built; a Manifest is never mutated after Normalize.
type Manifest struct {
	// Name identifies the suite (used in reports and run history).
	Name string `json:"name" yaml:"name"`

	// Examples is the allow-list of expected example names. The
	// discovered artifact set must be set-equal to this list before
	// anything is executed.
	Examples []string `json:"examples" yaml:"examples"`

	// Skip lists name prefixes excluded from execution. Matching is by
	// prefix, not equality, mirroring the reference harness.
	Skip []string `json:"skip,omitempty" yaml:"skip,omitempty"`

	// ArtifactExt is the reference-artifact extension, including the
	// leading dot. Defaults to ".wasm".
	ArtifactExt string `json:"artifact_ext,omitempty" yaml:"artifact_ext,omitempty"`

	// ArtifactDir is the reference-artifact directory, relative to the
	// suite root unless absolute.
	ArtifactDir string `json:"artifact_dir,omitempty" yaml:"artifact_dir,omitempty"`

	// BinDir is the compiled-example directory, relative to the suite
	// root unless absolute. Examples run with this as working directory.
	BinDir string `json:"bin_dir,omitempty" yaml:"bin_dir,omitempty"`
}

// Default returns the built-in wasm-c-api suite manifest.
func Default() *Manifest {
	return &Manifest{
		Name: "wasm-c-api",
		Examples: []string{
			"callback",
			"finalize",
			"global",
			"hello",
			"hostref",
			"memory",
			"multi",
			"reflect",
			"serialize",
			"start",
			"table",
			"threads",
			"trap",
		},
		Skip: []string{
			"threads",  // shared modules are not supported yet
			"finalize", // very slow
		},
		ArtifactExt: DefaultArtifactExt,
		ArtifactDir: filepath.Join("third_party", "wasm-c-api", "example"),
		BinDir:      filepath.Join("bin", "c-api-examples"),
	}
}

// Normalize fills in defaults for optional fields.
func (m *Manifest) Normalize() {
	if m.ArtifactExt == "" {
		m.ArtifactExt = DefaultArtifactExt
	}
	if m.ArtifactDir == "" {
		m.ArtifactDir = Default().ArtifactDir
	}
	if m.BinDir == "" {
		m.BinDir = Default().BinDir
	}
}

// Validate checks structural invariants of the manifest.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("suite name is required")
	}
	if len(m.Examples) == 0 {
		return fmt.Errorf("suite %q lists no examples", m.Name)
	}
	seen := make(map[string]bool, len(m.Examples))
	for _, name := range m.Examples {
		if name == "" {
			return fmt.Errorf("suite %q contains an empty example name", m.Name)
		}
		if seen[name] {
			return fmt.Errorf("suite %q lists example %q twice", m.Name, name)
		}
		seen[name] = true
	}
	if m.ArtifactExt != "" && m.ArtifactExt[0] != '.' {
		return fmt.Errorf("artifact extension %q must start with a dot", m.ArtifactExt)
	}
	return nil
}

// ResolveDirs returns the absolute artifact and binary directories for a
// given suite root. Relative manifest paths are joined onto root.
func (m *Manifest) ResolveDirs(root string) (artifactDir, binDir string) {
	artifactDir = m.ArtifactDir
	if !filepath.IsAbs(artifactDir) {
		artifactDir = filepath.Join(root, artifactDir)
	}
	binDir = m.BinDir
	if !filepath.IsAbs(binDir) {
		binDir = filepath.Join(root, binDir)
	}
	return artifactDir, binDir
}
