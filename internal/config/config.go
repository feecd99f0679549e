package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cobide/internal/charset"
	"cobide/internal/errors"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for the settings directory and window titles
const AppName = "cobide"

// Config represents the persisted IDE settings.
type Config struct {
	Editor struct {
		LastUsedPath     string `yaml:"last_used_path"`    // Directory offered by file dialogs
		FallbackEncoding string `yaml:"fallback_encoding"` // Used when a save cannot encode the text
		TabWidth         int    `yaml:"tab_width"`         // Spaces inserted for a tab key
	} `yaml:"editor"`
	Recent struct {
		Files []string `yaml:"files"` // Most recent first
		Max   int      `yaml:"max"`   // Number of entries kept
	} `yaml:"recent"`
	Compiler struct {
		Command string   `yaml:"command"` // cobc compatible compiler
		Flags   []string `yaml:"flags"`   // Extra flags passed before the source file
	} `yaml:"compiler"`
	Window struct {
		ShowNavigation bool `yaml:"show_navigation"` // Navigation dock toggle
		ShowLogs       bool `yaml:"show_logs"`       // Logs dock toggle
		Fullscreen     bool `yaml:"fullscreen"`
	} `yaml:"window"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for titles and the active tab
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for the cursor line and selections
		Border   string `yaml:"border"`   // Border color for panels
	} `yaml:"theme"`
}

// DefaultPath returns the settings file location
// ($XDG_CONFIG_HOME/cobide/settings.yaml).
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "settings.yaml"))
}

// DefaultLogPath returns the log file location under the XDG state directory
func DefaultLogPath() (string, error) {
	return xdg.StateFile(filepath.Join(AppName, AppName+".log"))
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if tempCfg.Editor.LastUsedPath != "" {
		cfg.Editor.LastUsedPath = tempCfg.Editor.LastUsedPath
	}
	if tempCfg.Editor.FallbackEncoding != "" {
		cfg.Editor.FallbackEncoding = tempCfg.Editor.FallbackEncoding
	}
	if tempCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = tempCfg.Editor.TabWidth
	}
	if tempCfg.Recent.Max != 0 {
		cfg.Recent.Max = tempCfg.Recent.Max
	}
	if len(tempCfg.Recent.Files) > 0 {
		cfg.Recent.Files = tempCfg.Recent.Files
	}
	if tempCfg.Compiler.Command != "" {
		cfg.Compiler.Command = tempCfg.Compiler.Command
	}
	if tempCfg.Compiler.Flags != nil {
		cfg.Compiler.Flags = tempCfg.Compiler.Flags
	}
	if hasWindowSection(data) {
		cfg.Window = tempCfg.Window
	}
	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
		overrideColor(&cfg.Theme.Primary, tempCfg.Theme.Primary)
		overrideColor(&cfg.Theme.Success, tempCfg.Theme.Success)
		overrideColor(&cfg.Theme.Warning, tempCfg.Theme.Warning)
		overrideColor(&cfg.Theme.Error, tempCfg.Theme.Error)
		overrideColor(&cfg.Theme.Info, tempCfg.Theme.Info)
		overrideColor(&cfg.Theme.Emphasis, tempCfg.Theme.Emphasis)
		overrideColor(&cfg.Theme.Border, tempCfg.Theme.Border)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if len(cfg.Recent.Files) > cfg.Recent.Max {
		cfg.Recent.Files = cfg.Recent.Files[:cfg.Recent.Max]
	}

	return cfg, nil
}

// hasWindowSection tells an absent window section (keep defaults) apart from
// one that switches every dock off.
func hasWindowSection(data []byte) bool {
	var probe map[string]interface{}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, ok := probe["window"]
	return ok
}

func overrideColor(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Editor.LastUsedPath = ""
	cfg.Editor.FallbackEncoding = charset.Default
	cfg.Editor.TabWidth = 4

	cfg.Recent.Files = []string{}
	cfg.Recent.Max = 10

	cfg.Compiler.Command = "cobc"
	cfg.Compiler.Flags = []string{}

	cfg.Window.ShowNavigation = true
	cfg.Window.ShowLogs = true
	cfg.Window.Fullscreen = false

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Compiler.Command == "" {
		return invalidSetting("compiler.command", "a compiler command is required")
	}

	if c.Recent.Max < 1 {
		return invalidSetting("recent.max", "must be >= 1")
	}

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return invalidSetting("editor.tab_width", "must be between 1 and 16")
	}

	if _, err := charset.Lookup(c.Editor.FallbackEncoding); err != nil {
		return invalidSetting("editor.fallback_encoding", fmt.Sprintf("unknown fallback encoding %q", c.Editor.FallbackEncoding))
	}

	validTheme := false
	for _, name := range ListThemes() {
		if name == c.Theme.Name {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return invalidSetting("theme.name", fmt.Sprintf("unknown theme %q", c.Theme.Name))
	}

	return nil
}

func invalidSetting(param, reason string) error {
	return errors.NewConfigError("invalid setting", param, errors.InvalidConfig, errors.New(reason))
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// Clone returns a deep copy of the configuration
func (c *Config) Clone() *Config {
	cp := *c
	cp.Recent.Files = append([]string(nil), c.Recent.Files...)
	cp.Compiler.Flags = append([]string(nil), c.Compiler.Flags...)
	return &cp
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105", // Dark Blue
			"success":  "78",  // Dark Green
			"warning":  "214", // Dark Yellow
			"error":    "160", // Dark Red
			"info":     "33",  // Dark Blue
			"emphasis": "147", // Light Blue
			"border":   "105", // Dark Blue
		},
		"light": {
			"primary":  "135", // Light Purple
			"success":  "150", // Light Green
			"warning":  "222", // Light Yellow
			"error":    "210", // Light Red
			"info":     "117", // Light Blue
			"emphasis": "219", // Very Light Pink
			"border":   "135", // Light Purple
		},
		"monochrome": {
			"primary":  "245", // Light Grey
			"success":  "252", // White
			"warning":  "241", // Medium Grey
			"error":    "232", // Black
			"info":     "248", // Grey
			"emphasis": "255", // Bright White
			"border":   "245", // Light Grey
		},
		"mainframe": {
			"primary":  "46",  // Phosphor green
			"success":  "82",  // Bright green
			"warning":  "226", // Yellow
			"error":    "196", // Red
			"info":     "40",  // Green
			"emphasis": "118", // Light green
			"border":   "28",  // Dark green
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "mainframe"}
}
