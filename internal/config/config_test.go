package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcncl/json2csv/internal/errors"
	"github.com/mcncl/json2csv/internal/formatter"
	"github.com/mcncl/json2csv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func needleNames(cfg *Config) []string {
	var names []string
	for _, n := range cfg.Needles.Needles() {
		names = append(names, n.Name)
	}
	return names
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "none", cfg.Output.HeaderCase)
	assert.False(t, cfg.Output.BlankLineBetweenTables)
	assert.False(t, cfg.Dev.Debug)
	assert.Equal(t, 0, cfg.Needles.Len())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
needles:
  background_activities:
    - calories_burned
    - steps
    - timestamp
    - uri
  diabetes: ~
  fitness_activities: [duration, entry_mode, has_path, source, start_time, total_calories, total_distance, type, uri]
output:
  header_case: snake
  blank_line_between_tables: true
dev:
  debug: true
`
	cfg, err := LoadConfig(writeTempConfig(t, yamlContent))
	require.NoError(t, err)

	assert.Equal(t, []string{"background_activities", "diabetes", "fitness_activities"}, needleNames(cfg))

	background, ok := cfg.Needles.Lookup("background_activities")
	require.True(t, ok)
	assert.Equal(t, []string{"calories_burned", "steps", "timestamp", "uri"}, background.Columns.Names())

	diabetes, ok := cfg.Needles.Lookup("diabetes")
	require.True(t, ok)
	assert.False(t, diabetes.Columns.IsExplicit())

	fitness, ok := cfg.Needles.Lookup("fitness_activities")
	require.True(t, ok)
	assert.Len(t, fitness.Columns.Names(), 9)

	assert.Equal(t, "snake", cfg.Output.HeaderCase)
	assert.True(t, cfg.Output.BlankLineBetweenTables)
	assert.True(t, cfg.Dev.Debug)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	invalidYAML := `
needles:
  diabetes: [unclosed array
`
	_, err := LoadConfig(writeTempConfig(t, invalidYAML))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadInvalidNeedles(t *testing.T) {
	_, err := LoadConfig(writeTempConfig(t, "needles:\n  steps: [a, b, a]\n"))
	assert.ErrorIs(t, err, errors.ErrDuplicateColumn)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadInvalidHeaderCase(t *testing.T) {
	_, err := LoadConfig(writeTempConfig(t, "output:\n  header_case: title\n"))
	assert.ErrorIs(t, err, errors.ErrInvalidHeaderCase)
	assert.Contains(t, err.Error(), "output.header_case")
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_search_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	err = os.MkdirAll(nestedDir, 0o755)
	require.NoError(t, err)

	// Config file lives in the project root
	configPath := filepath.Join(tmpDir, "project", ".json2csv.yml")
	configContent := "needles:\n  found: ~\n"
	err = os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(t, err)

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(nestedDir)
	require.NoError(t, err)

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "found: ~")
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "no_config_test")
	require.NoError(t, err)
	defer func() { _ = os.RemoveAll(tmpDir) }()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	foundPath := FindConfigFile()
	assert.Empty(t, foundPath)
}

func TestConfig_FormatterOptions(t *testing.T) {
	cfg := NewConfig()
	cfg.Output.HeaderCase = "screaming-snake"
	cfg.Output.BlankLineBetweenTables = true

	f := formatter.NewFormatter(cfg.FormatterOptions()...)
	tables := []models.Table{
		{Columns: []string{"steps"}, Rows: []models.Row{{{Column: "steps", Value: "1"}}}},
		{Columns: []string{"uri"}},
	}
	assert.Equal(t, "STEPS\n1\n\nURI\n", f.Aggregate(tables))
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	configYAML := `
needles:
  diabetes: ~
output:
  header_case: kebab
  blank_line_between_tables: false
`
	path := writeTempConfig(t, configYAML)

	cfg, err := LoadConfigWithCLI(path, []string{"steps=a,b", "weight"}, "camel", true)
	require.NoError(t, err)

	// CLI > config file > defaults
	assert.Equal(t, []string{"steps", "weight"}, needleNames(cfg))
	assert.Equal(t, "camel", cfg.Output.HeaderCase)
	assert.True(t, cfg.Output.BlankLineBetweenTables)
}

func TestLoadConfigWithPrecedence_NoOverrides(t *testing.T) {
	configYAML := `
needles:
  diabetes: ~
output:
  header_case: kebab
  blank_line_between_tables: true
`
	path := writeTempConfig(t, configYAML)

	cfg, err := LoadConfigWithCLI(path, nil, "", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"diabetes"}, needleNames(cfg))
	assert.Equal(t, "kebab", cfg.Output.HeaderCase)
	assert.True(t, cfg.Output.BlankLineBetweenTables)
}

func TestLoadConfigWithPrecedence_ExplicitNoneHeaderCase(t *testing.T) {
	path := writeTempConfig(t, "output:\n  header_case: snake\n")

	cfg, err := LoadConfigWithCLI(path, nil, "none", false)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Output.HeaderCase)
}

func TestLoadConfigWithCLI_NoFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", []string{"diabetes"}, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"diabetes"}, needleNames(cfg))
	assert.Equal(t, "none", cfg.Output.HeaderCase)
}

func TestLoadConfigWithCLI_Errors(t *testing.T) {
	_, err := LoadConfigWithCLI("", []string{"a", "a"}, "", false)
	assert.ErrorIs(t, err, errors.ErrDuplicateNeedle)
	assert.Contains(t, err.Error(), "invalid --needle")

	_, err = LoadConfigWithCLI("", nil, "title", false)
	assert.ErrorIs(t, err, errors.ErrInvalidHeaderCase)

	_, err = LoadConfigWithCLI("/non/existent/config.yml", nil, "", false)
	assert.Error(t, err)
}
