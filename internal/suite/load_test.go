package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeManifest(t, "suite.yaml", `
name: mini
examples:
  - hello
  - memory
skip:
  - memory
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mini", m.Name)
	assert.Equal(t, []string{"hello", "memory"}, m.Examples)
	assert.Equal(t, []string{"memory"}, m.Skip)
	// Defaults filled by Normalize.
	assert.Equal(t, ".wasm", m.ArtifactExt)
	assert.Equal(t, Default().BinDir, m.BinDir)
}

func TestLoadYAMLRejectsUnknownField(t *testing.T) {
	path := writeManifest(t, "suite.yaml", `
name: mini
examples: [hello]
timeout: 30
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestLoadYAMLRejectsDuplicateExample(t *testing.T) {
	path := writeManifest(t, "suite.yml", `
name: mini
examples: [hello, hello]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}

func TestLoadCUE(t *testing.T) {
	path := writeManifest(t, "suite.cue", `
name: "mini"
examples: ["hello", "memory"]
skip: ["memory"]
artifact_dir: "artifacts"
bin_dir:      "out"
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mini", m.Name)
	assert.Equal(t, []string{"hello", "memory"}, m.Examples)
	assert.Equal(t, []string{"memory"}, m.Skip)
	assert.Equal(t, "artifacts", m.ArtifactDir)
	assert.Equal(t, "out", m.BinDir)
}

func TestLoadCUERejectsEmptyExamples(t *testing.T) {
	path := writeManifest(t, "suite.cue", `
name: "mini"
examples: []
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suite schema")
}

func TestLoadCUERejectsBadExtension(t *testing.T) {
	path := writeManifest(t, "suite.cue", `
name: "mini"
examples: ["hello"]
artifact_ext: "wasm"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suite schema")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeManifest(t, "suite.toml", `name = "mini"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
