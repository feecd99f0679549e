package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"cobide/internal/config"
	"cobide/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "settings-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
editor:
  last_used_path: "/home/test/cobol"
  fallback_encoding: "utf-8"
  tab_width: 2
recent:
  max: 3
  files:
    - /home/test/cobol/a.cbl
    - /home/test/cobol/b.cbl
    - /home/test/cobol/c.cbl
    - /home/test/cobol/d.cbl
compiler:
  command: "/opt/gnucobol/bin/cobc"
  flags: ["-free", "-Wall"]
window:
  show_navigation: false
  show_logs: true
theme:
  name: dark
  error: "9"
`
	invalidSyntaxYAML = `
editor:
  last_used_path: "/unterminated
recent: [
`
	invalidEncodingYAML = `
editor:
  fallback_encoding: "klingon-8"
`
	invalidThemeYAML = `
theme:
  name: neon
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "/home/test/cobol", cfg.Editor.LastUsedPath)
		assert.Equal(t, 2, cfg.Editor.TabWidth)
		assert.Equal(t, "/opt/gnucobol/bin/cobc", cfg.Compiler.Command)
		assert.Equal(t, []string{"-free", "-Wall"}, cfg.Compiler.Flags)
		assert.False(t, cfg.Window.ShowNavigation)
		assert.True(t, cfg.Window.ShowLogs)

		// Recent files are trimmed to the configured maximum
		assert.Equal(t, 3, cfg.Recent.Max)
		assert.Len(t, cfg.Recent.Files, 3)
		assert.Equal(t, "/home/test/cobol/a.cbl", cfg.Recent.Files[0])

		// Theme colors come from the named theme with per-color overrides
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, "9", cfg.Theme.Error)
		assert.Equal(t, config.GetTheme("dark")["primary"], cfg.Theme.Primary)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "does_not_exist.yaml"))
		require.NoError(t, err, "Loading non-existent file should return default config, not an error")

		defaults := config.New()
		assert.Equal(t, defaults.Compiler.Command, cfg.Compiler.Command)
		assert.Equal(t, defaults.Editor.FallbackEncoding, cfg.Editor.FallbackEncoding)
		assert.Equal(t, defaults.Recent.Max, cfg.Recent.Max)
		assert.True(t, cfg.Window.ShowLogs)
		assert.True(t, cfg.Window.ShowNavigation)
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("load unreadable file", func(t *testing.T) {
		_, err := config.LoadConfigFile(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
		assert.Equal(t, errors.ConfigNotFound, errors.KindOf(err))
		assert.False(t, errors.IsInvalidConfig(err))
	})

	t.Run("load file with unknown fallback encoding", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidEncodingYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "unknown fallback encoding")
		assert.True(t, errors.IsInvalidConfig(err), "validation errors survive the wrap")
	})

	t.Run("load file with unknown theme", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidThemeYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown theme")
	})
}

func TestValidate(t *testing.T) {
	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())

	cfg := config.New()
	require.NoError(t, cfg.Validate())

	cfg.Compiler.Command = ""
	assert.ErrorContains(t, cfg.Validate(), "compiler command")

	cfg = config.New()
	cfg.Recent.Max = 0
	assert.ErrorContains(t, cfg.Validate(), "recent.max")

	cfg = config.New()
	cfg.Editor.TabWidth = 40
	err := cfg.Validate()
	assert.ErrorContains(t, err, "tab_width")
	assert.True(t, errors.IsInvalidConfig(err))

	var configErr *errors.ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "editor.tab_width", configErr.Param())
	assert.Equal(t, "invalid setting: editor.tab_width: must be between 1 and 16", err.Error())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	cfg := config.New()
	cfg.Editor.LastUsedPath = "/srv/cobol"
	cfg.Recent.Files = []string{"/srv/cobol/payroll.cbl"}
	cfg.Window.ShowLogs = false
	cfg.ApplyTheme("mainframe")

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/cobol", loaded.Editor.LastUsedPath)
	assert.Equal(t, []string{"/srv/cobol/payroll.cbl"}, loaded.Recent.Files)
	assert.False(t, loaded.Window.ShowLogs)
	assert.Equal(t, "mainframe", loaded.Theme.Name)
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.NotEmpty(t, theme["primary"], name)
		assert.NotEmpty(t, theme["border"], name)
	}

	// Unknown themes fall back to the default palette
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("unknown"))
}
