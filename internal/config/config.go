package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/json2csv/internal/formatter"
	"github.com/mcncl/json2csv/internal/needles"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for json2csv
type Config struct {
	Needles needles.Config `yaml:"needles"`
	Output  OutputConfig   `yaml:"output"`
	Dev     DevConfig      `yaml:"dev"`
}

// OutputConfig controls how tables are rendered
type OutputConfig struct {
	HeaderCase             string `yaml:"header_case"`
	BlankLineBetweenTables bool   `yaml:"blank_line_between_tables"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			HeaderCase:             string(formatter.HeaderCaseNone),
			BlankLineBetweenTables: false,
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

// Validate checks settings that the YAML decoder cannot
func (c *Config) Validate() error {
	if _, err := formatter.ParseHeaderCase(c.Output.HeaderCase); err != nil {
		return fmt.Errorf("output.header_case: %w", err)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".json2csv.yml", ".json2csv.yaml", "json2csv.yml", "json2csv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

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

// FormatterOptions returns the formatter settings described by the config.
// The header case must already be valid.
func (c *Config) FormatterOptions() []formatter.Option {
	headerCase, err := formatter.ParseHeaderCase(c.Output.HeaderCase)
	if err != nil {
		headerCase = formatter.HeaderCaseNone
	}
	return []formatter.Option{
		formatter.WithHeaderCase(headerCase),
		formatter.WithBlankLineBetweenTables(c.Output.BlankLineBetweenTables),
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// Needles given on the command line replace those from the file, a non-empty
// header case (including "none") overrides the file, and separate can only
// turn the blank line on. An empty cliHeaderCase means the flag was not given.
func LoadConfigWithCLI(configPath string, cliNeedles []string, cliHeaderCase string, cliSeparate bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if len(cliNeedles) > 0 {
		flagNeedles, err := needles.ParseFlags(cliNeedles)
		if err != nil {
			return nil, fmt.Errorf("invalid --needle: %w", err)
		}
		cfg.Needles = *flagNeedles
	}

	if cliHeaderCase != "" {
		cfg.Output.HeaderCase = cliHeaderCase
	}
	if cliSeparate {
		cfg.Output.BlankLineBetweenTables = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
