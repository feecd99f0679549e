package gui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cobide/internal/config"

	"gopkg.in/yaml.v3"
)

var errEmptyName = errors.New("a file name is required")

// parseImportedConfig parses settings exported by exportConfig. The format
// follows the extension of name.
func parseImportedConfig(r io.Reader, name string) (*config.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	format := filepath.Ext(name)
	cfg := config.New()

	switch strings.ToLower(format) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// exportConfig writes the settings as "json" or "yaml"
func exportConfig(cfg *config.Config, w io.Writer, format string) error {
	var data []byte
	var err error

	switch strings.ToLower(format) {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding to JSON: %w", err)
		}
	case "yaml", "yml":
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error encoding to YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	return nil
}

// exportFormat picks the export format from a file name, yaml by default
func exportFormat(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return "json"
	}
	return "yaml"
}

// splitFlags splits a flags field on white space
func splitFlags(s string) []string {
	return strings.Fields(s)
}
