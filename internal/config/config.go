package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonlint/internal/parser"
	"github.com/mcncl/jsonlint/internal/render"
)

// Config represents the complete configuration for jsonlint
type Config struct {
	Grammar GrammarConfig `yaml:"grammar"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Dev     DevConfig     `yaml:"dev"`
}

// GrammarConfig selects grammar variants accepted by the parser
type GrammarConfig struct {
	// AllowUndefined accepts the non-standard literal `undefined` as a value
	AllowUndefined bool `yaml:"allow_undefined"`
}

// RenderConfig controls how diagnostics are written to the terminal
type RenderConfig struct {
	// Color is one of "auto", "always", "never"
	Color string `yaml:"color"`
	// MaxDiagnostics caps the number of rendered diagnostics; 0 = unlimited
	MaxDiagnostics int `yaml:"max_diagnostics"`
}

// OutputConfig controls the pretty-printed output of a successful parse
type OutputConfig struct {
	Indent  string `yaml:"indent"`
	Compact bool   `yaml:"compact"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Grammar: GrammarConfig{
			AllowUndefined: true,
		},
		Render: RenderConfig{
			Color:          "auto",
			MaxDiagnostics: 0,
		},
		Output: OutputConfig{
			Indent:  "  ",
			Compact: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have a fixed set of legal spellings
func (c *Config) Validate() error {
	switch c.Render.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode '%s': must be auto, always or never", c.Render.Color)
	}
	if c.Render.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must not be negative, got %d", c.Render.MaxDiagnostics)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonlint.yml", ".jsonlint.yaml", "jsonlint.yml", "jsonlint.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ParserOptions maps the grammar section onto parser options
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		AllowUndefined: c.Grammar.AllowUndefined,
	}
}

// ColorMode maps the configured color spelling onto a render.ColorMode
func (c *Config) ColorMode() render.ColorMode {
	switch c.Render.Color {
	case "always":
		return render.ColorAlways
	case "never":
		return render.ColorNever
	default:
		return render.ColorAuto
	}
}
