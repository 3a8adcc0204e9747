// Package config loads and validates the launcher configuration.
//
// The configuration file is optional: a project that follows the default
// layout (venv/, requirements.txt, main.py, remote "origin") needs no
// file at all. When present, the file may be JSONC (JSON with comments,
// stripped via github.com/tidwall/jsonc before parsing with the standard
// encoding/json) or YAML, chosen by file extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// candidateNames lists the configuration file names probed in the
// project directory, in priority order. The JSON variant wins because
// it matches the sync program's own config.json convention.
var candidateNames = []string{
	"groundwork.json",
	"groundwork.yaml",
	"groundwork.yml",
}

// Config holds all launcher settings. Zero values are filled in by
// applyDefaults, so a partially specified file is fine.
type Config struct {
	// Remote is the git remote to fetch from. Default: "origin".
	Remote string `json:"remote,omitempty" yaml:"remote,omitempty"`

	// Branch is the branch to check out and fast-forward before the
	// sync program runs. Default: "main".
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`

	// VenvDir is the virtual environment directory, relative to the
	// project directory unless absolute. Default: "venv".
	VenvDir string `json:"venvDir,omitempty" yaml:"venvDir,omitempty"`

	// Requirements is the dependency manifest file, relative to the
	// project directory unless absolute. Default: "requirements.txt".
	Requirements string `json:"requirements,omitempty" yaml:"requirements,omitempty"`

	// EntryPoint is the sync program's entry point, relative to the
	// project directory unless absolute. Default: "main.py".
	EntryPoint string `json:"entryPoint,omitempty" yaml:"entryPoint,omitempty"`

	// Interpreters lists interpreter names probed on PATH, in order.
	// Default: ["python3", "python"].
	Interpreters []string `json:"interpreters,omitempty" yaml:"interpreters,omitempty"`

	// Env holds extra environment variables passed to the sync program
	// on top of the launcher's own environment. The launcher never
	// interprets these values.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Default returns a Config with every field set to its default value.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// applyDefaults fills in zero-valued fields.
func (c *Config) applyDefaults() {
	if c.Remote == "" {
		c.Remote = "origin"
	}
	if c.Branch == "" {
		c.Branch = "main"
	}
	if c.VenvDir == "" {
		c.VenvDir = "venv"
	}
	if c.Requirements == "" {
		c.Requirements = "requirements.txt"
	}
	if c.EntryPoint == "" {
		c.EntryPoint = "main.py"
	}
	if len(c.Interpreters) == 0 {
		c.Interpreters = []string{"python3", "python"}
	}
}

// Validate checks the configuration for values the launcher cannot
// work with. It is called after applyDefaults, so empty fields are
// impossible here; the checks guard against explicit bad values.
func (c *Config) Validate() error {
	for _, name := range c.Interpreters {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("interpreters must not contain empty entries")
		}
	}
	// Path traversal out of the project is allowed for absolute paths
	// but a bare ".." style venv dir is almost always a mistake.
	if c.VenvDir == "." || c.VenvDir == ".." {
		return fmt.Errorf("venvDir %q is not a usable directory name", c.VenvDir)
	}
	return nil
}

// Load reads and parses a configuration file. The format is selected by
// extension: .json/.jsonc are parsed as JSONC, .yaml/.yml as YAML.
// Defaults are applied and the result validated before returning.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		// Strip comments and trailing commas first. Operators tend to
		// annotate launcher configs the same way they annotate the
		// sync program's config.json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (expected .json, .jsonc, .yaml or .yml)", ext)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &c, nil
}

// Find searches the project directory for a configuration file and
// returns its path. Returns an empty string (and no error) when no
// candidate exists — a missing file simply means defaults.
func Find(projectDir string) string {
	for _, name := range candidateNames {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadOrDefault resolves the effective configuration for a project.
// If explicit is non-empty it must name a readable config file; an
// error loading it is fatal. Otherwise the project directory is
// searched, and a full default configuration is returned when no
// file exists.
func LoadOrDefault(projectDir, explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = Find(projectDir)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Resolve returns the given path joined onto the project directory,
// unless it is already absolute. All relative paths in a Config are
// interpreted against the project directory, mirroring how the original
// launcher pinned its working directory before doing anything else.
func Resolve(projectDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectDir, path)
}
