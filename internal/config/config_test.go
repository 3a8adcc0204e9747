package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file with the given name and content into
// a fresh temp directory and returns the directory.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err)
	return dir
}

// TestDefault verifies the zero-config defaults match the documented
// project layout.
func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "origin", c.Remote)
	assert.Equal(t, "main", c.Branch)
	assert.Equal(t, "venv", c.VenvDir)
	assert.Equal(t, "requirements.txt", c.Requirements)
	assert.Equal(t, "main.py", c.EntryPoint)
	assert.Equal(t, []string{"python3", "python"}, c.Interpreters)
	assert.NoError(t, c.Validate())
}

// TestLoadJSONC verifies JSONC parsing: comments and trailing commas
// must be tolerated, and unspecified fields must fall back to defaults.
func TestLoadJSONC(t *testing.T) {
	dir := writeConfig(t, "groundwork.json", `{
  // track the development branch on this machine
  "branch": "dev",
  "env": {
    "SYNC_DEBUG": "1",
  },
}`)

	c, err := Load(filepath.Join(dir, "groundwork.json"))
	require.NoError(t, err)
	assert.Equal(t, "dev", c.Branch)
	assert.Equal(t, "origin", c.Remote, "unset fields keep defaults")
	assert.Equal(t, "main.py", c.EntryPoint)
	assert.Equal(t, map[string]string{"SYNC_DEBUG": "1"}, c.Env)
}

// TestLoadYAML verifies the YAML variant.
func TestLoadYAML(t *testing.T) {
	dir := writeConfig(t, "groundwork.yaml", `
branch: dev
venvDir: .venv
interpreters:
  - python3.12
  - python3
`)

	c, err := Load(filepath.Join(dir, "groundwork.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "dev", c.Branch)
	assert.Equal(t, ".venv", c.VenvDir)
	assert.Equal(t, []string{"python3.12", "python3"}, c.Interpreters)
}

// TestLoadRejectsUnknownExtension verifies format selection is strict.
func TestLoadRejectsUnknownExtension(t *testing.T) {
	dir := writeConfig(t, "groundwork.toml", `branch = "dev"`)
	_, err := Load(filepath.Join(dir, "groundwork.toml"))
	assert.ErrorContains(t, err, "unsupported config format")
}

// TestLoadRejectsMalformedJSON verifies parse failures carry the path.
func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := writeConfig(t, "groundwork.json", `{"branch": `)
	_, err := Load(filepath.Join(dir, "groundwork.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groundwork.json")
}

// TestFindSearchOrder verifies the JSON candidate wins over YAML when
// both exist, and that a project without any file yields "".
func TestFindSearchOrder(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", Find(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "groundwork.yaml"), []byte("branch: dev\n"), 0644))
	assert.Equal(t, filepath.Join(dir, "groundwork.yaml"), Find(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "groundwork.json"), []byte("{}"), 0644))
	assert.Equal(t, filepath.Join(dir, "groundwork.json"), Find(dir))
}

// TestLoadOrDefault covers the three resolution modes: explicit path,
// discovered file, and pure defaults.
func TestLoadOrDefault(t *testing.T) {
	// No file anywhere: defaults.
	c, err := LoadOrDefault(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "main", c.Branch)

	// Discovered file.
	dir := writeConfig(t, "groundwork.json", `{"branch": "dev"}`)
	c, err = LoadOrDefault(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "dev", c.Branch)

	// Explicit path outside the project directory.
	other := writeConfig(t, "elsewhere.yaml", "branch: release\n")
	c, err = LoadOrDefault(dir, filepath.Join(other, "elsewhere.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "release", c.Branch)

	// Explicit path that does not exist is an error, not a silent default.
	_, err = LoadOrDefault(dir, filepath.Join(other, "missing.json"))
	assert.Error(t, err)
}

// TestValidate verifies the explicit bad-value guards.
func TestValidate(t *testing.T) {
	c := Default()
	c.Interpreters = []string{"python3", "  "}
	assert.Error(t, c.Validate())

	c = Default()
	c.VenvDir = ".."
	assert.Error(t, c.Validate())
}

// TestResolve verifies relative paths are pinned to the project
// directory while absolute paths pass through.
func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", "venv"), Resolve("/proj", "venv"))
	assert.Equal(t, "/elsewhere/venv", Resolve("/proj", "/elsewhere/venv"))
}
