// =============================================================================
// QRIS Dynamic Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration from
// a single YAML file. Every option has a default, so running without a
// configuration file is supported.
//
// CONFIGURATION SECTIONS:
//   1. Directories used by the batch command
//   2. Logging
//   3. Conversion behaviour (strict mode)
//   4. History store
//   5. QR rendering
//   6. Batch input layout
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned by the batch command for files to convert.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives result workbooks, manifests, QR images and logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is where batch input files are moved after a
	// successful run.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir keeps a copy of every result workbook.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional log file. When empty, logs go to stderr.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputNameFormat defines the base name of batch output files.
	// Placeholders:
	//   {name}      - Input file name without extension
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "{name}_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of batch files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps converting the remaining rows of a batch file
	// after a row fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// Strict rejects payloads without a point-of-initiation field (tag 01)
	// instead of converting them without a dynamic-mode indicator.
	// Default: false
	Strict bool `yaml:"strict"`

	// History configures the recent-payload store.
	History HistoryConfig `yaml:"history"`

	// Render configures QR image output.
	Render RenderConfig `yaml:"render"`

	// Batch configures how batch input files are read.
	Batch BatchConfig `yaml:"batch"`
}

// HistoryConfig configures the recent-payload store.
type HistoryConfig struct {
	// File is the YAML file holding the history.
	// Default: "./qris_history.yaml"
	File string `yaml:"file"`

	// MaxEntries bounds the number of entries kept, newest first.
	// Default: 10
	MaxEntries int `yaml:"max_entries"`
}

// RenderConfig configures QR image output.
type RenderConfig struct {
	// Size is the PNG width and height in pixels.
	// Default: 240
	Size int `yaml:"size"`

	// Level is the error-correction level: "low", "medium", "high", "highest".
	// Default: "medium"
	Level string `yaml:"level"`
}

// BatchConfig configures how batch input files are read.
type BatchConfig struct {
	// FilePatterns are glob patterns matched against file names in InputDir.
	// Default: ["*.csv", "*.xlsx"]
	FilePatterns []string `yaml:"file_patterns"`

	// PayloadColumn, AmountColumn and LabelColumn are the header names of
	// the input columns, matched case-insensitively. LabelColumn is optional.
	// Defaults: "payload", "amount", "label"
	PayloadColumn string `yaml:"payload_column"`
	AmountColumn  string `yaml:"amount_column"`
	LabelColumn   string `yaml:"label_column"`

	// Delimiter is the CSV field separator.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Sheet is the XLSX sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// WriteManifest also writes an XML manifest next to the result workbook.
	// Default: false
	WriteManifest bool `yaml:"write_manifest"`

	// RenderPNG writes one QR image per converted row.
	// Default: false
	RenderPNG bool `yaml:"render_png"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct. A missing file yields Default().
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ShouldContinueOnError reports the effective continue_on_error setting.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{name}_{timestamp}"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}

	// History defaults.
	if config.History.File == "" {
		config.History.File = "./qris_history.yaml"
	}
	if config.History.MaxEntries == 0 {
		config.History.MaxEntries = 10
	}

	// Render defaults, matching the original 240px / level M output.
	if config.Render.Size == 0 {
		config.Render.Size = 240
	}
	if config.Render.Level == "" {
		config.Render.Level = "medium"
	}

	// Batch defaults.
	if len(config.Batch.FilePatterns) == 0 {
		config.Batch.FilePatterns = []string{"*.csv", "*.xlsx"}
	}
	if config.Batch.PayloadColumn == "" {
		config.Batch.PayloadColumn = "payload"
	}
	if config.Batch.AmountColumn == "" {
		config.Batch.AmountColumn = "amount"
	}
	if config.Batch.LabelColumn == "" {
		config.Batch.LabelColumn = "label"
	}
	if config.Batch.Delimiter == "" {
		config.Batch.Delimiter = ","
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", config.LogLevel)
	}

	switch strings.ToLower(config.Render.Level) {
	case "low", "medium", "high", "highest":
	default:
		return fmt.Errorf("render.level %q must be one of low, medium, high, highest", config.Render.Level)
	}

	if config.Render.Size < 0 {
		return fmt.Errorf("render.size must be positive, got %d", config.Render.Size)
	}
	if config.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must be positive, got %d", config.History.MaxEntries)
	}
	if config.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", config.MaxConcurrency)
	}
	switch config.Batch.Delimiter {
	case "\\t", "tab", "TAB":
		return nil
	}
	if len([]rune(config.Batch.Delimiter)) != 1 {
		return fmt.Errorf("batch.delimiter must be a single character, got %q", config.Batch.Delimiter)
	}

	return nil
}
