// Package config handles loading, defaulting and validation of the
// optional groundwork configuration file.
//
// Supported formats are JSONC (groundwork.json, parsed with
// github.com/tidwall/jsonc + encoding/json) and YAML (groundwork.yaml
// or groundwork.yml, parsed with gopkg.in/yaml.v3). A project without
// any configuration file runs entirely on defaults.
package config
