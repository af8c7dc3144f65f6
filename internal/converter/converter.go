// =============================================================================
// QRIS Dynamic Converter - Batch Converter
// =============================================================================
//
// This module converts every row of a single batch file. It orchestrates the
// whole pipeline for that file, from reading the rows to archiving the input.
//
// CONVERSION PIPELINE:
//   1. Read the rows (CSV or XLSX, chosen by extension)
//   2. For each row:
//      a. Validate the row (payload present, amount parses)
//      b. Convert the static payload to a dynamic one
//      c. Look up the merchant name
//      d. Optionally render the QR image
//   3. Write the result workbook
//   4. Optionally write the XML manifest
//   5. Write the row error log, if any row failed
//   6. Archive the input and the results
//
// A dry run stops after step 2: nothing is written and nothing is moved.
//
// CONCURRENCY:
//   A Converter handles one file and is not shared. The batch command runs
//   one Converter per file, concurrently.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ginjaninja78/qris-dynamic/internal/amount"
	"github.com/ginjaninja78/qris-dynamic/internal/config"
	"github.com/ginjaninja78/qris-dynamic/internal/csvparser"
	"github.com/ginjaninja78/qris-dynamic/internal/qris"
	"github.com/ginjaninja78/qris-dynamic/internal/render"
	"github.com/ginjaninja78/qris-dynamic/internal/types"
	"github.com/ginjaninja78/qris-dynamic/internal/validation"
	"github.com/ginjaninja78/qris-dynamic/internal/xlsxparser"
	"github.com/ginjaninja78/qris-dynamic/internal/xlsxwriter"
	"github.com/ginjaninja78/qris-dynamic/internal/xmlwriter"
	"github.com/ginjaninja78/qris-dynamic/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the result workbook. Empty on failure and in dry runs.
	OutputFile string

	// ManifestFile is the XML manifest, when one was written.
	ManifestFile string

	// ErrorLogFile lists the failed rows, when any row failed.
	ErrorLogFile string

	// Success indicates whether the file was processed. A file whose rows
	// partly failed still succeeds when continue_on_error is set.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Conversions holds one entry per row read, in input order.
	Conversions []types.Conversion

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of non-empty data rows in the file.
	RowsRead int

	// Converted is the number of rows that produced a dynamic payload.
	Converted int

	// Failed is the number of rows that did not.
	Failed int

	// ValidationErrors counts row issues found before conversion.
	ValidationErrors int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options tunes a single run.
type Options struct {
	// DryRun converts in memory only: no workbook, manifest, images or
	// archival.
	DryRun bool
}

// Converter handles the conversion of a single batch file.
type Converter struct {
	inputPath string
	config    *config.MainConfig
	options   Options
	files     *utils.FileManager
	logger    *slog.Logger
	convert   func(raw string, amount int64) (string, error)
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the CSV or XLSX batch file.
//   - cfg: The application configuration.
//   - logger: The parent logger; the converter tags its records with the file.
//   - options: Run options.
//
// RETURNS:
//   - A new Converter instance.
func New(inputPath string, cfg *config.MainConfig, logger *slog.Logger, options Options) *Converter {
	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	files.ArchiveOnSuccess = !options.DryRun

	convert := qris.Convert
	if cfg.Strict {
		convert = qris.ConvertStrict
	}

	return &Converter{
		inputPath: inputPath,
		config:    cfg,
		options:   options,
		files:     files,
		logger:    logger.With("file", filepath.Base(inputPath)),
		convert:   convert,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file. Cancelling ctx stops
// the run between rows.
func (c *Converter) Run(ctx context.Context) (result Result) {
	startTime := time.Now()
	result = Result{FilePath: c.inputPath}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
	}()

	c.logger.Info("processing file", "path", c.inputPath, "dry_run", c.options.DryRun)

	// =========================================================================
	// STEP 1: READ ROWS
	// =========================================================================

	rows, err := c.readRows()
	if err != nil {
		result.Error = fmt.Errorf("failed to read rows: %w", err)
		return result
	}

	result.Stats.RowsRead = len(rows)
	c.logger.Debug("read rows", "count", len(rows))

	// =========================================================================
	// STEP 2: CONVERT ROWS
	// =========================================================================

	result.Conversions = make([]types.Conversion, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			result.Error = err
			return result
		}

		conversion, issues := c.convertRow(row)
		result.Stats.ValidationErrors += len(issues)
		result.Conversions = append(result.Conversions, conversion)

		if conversion.Succeeded() {
			result.Stats.Converted++
			continue
		}

		result.Stats.Failed++
		c.logger.Warn("row failed", "row", row.Number, "error", conversion.Error)

		if !c.config.ShouldContinueOnError() {
			result.Error = fmt.Errorf("row %d: %s", row.Number, conversion.Error)
			return result
		}
	}

	c.logger.Debug("conversion complete",
		"converted", result.Stats.Converted,
		"failed", result.Stats.Failed)

	if c.options.DryRun {
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 3: WRITE RESULT WORKBOOK
	// =========================================================================

	if err := c.files.EnsureDirectories(); err != nil {
		result.Error = err
		return result
	}

	outputPath := filepath.Join(c.config.OutputDir, utils.GenerateOutputFileName(
		c.config.OutputNameFormat,
		map[string]string{"name": utils.BaseName(c.inputPath)},
		".xlsx",
	))

	if err := xlsxwriter.Write(outputPath, filepath.Base(c.inputPath), result.Conversions); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	result.OutputFile = outputPath
	c.logger.Info("wrote output", "path", outputPath)

	// =========================================================================
	// STEP 4: WRITE MANIFEST
	// =========================================================================

	if c.config.Batch.WriteManifest {
		manifestPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".xml"
		if err := c.writeManifest(manifestPath, result.Conversions); err != nil {
			result.Error = fmt.Errorf("failed to write manifest: %w", err)
			return result
		}
		result.ManifestFile = manifestPath
		c.logger.Debug("wrote manifest", "path", manifestPath)
	}

	// =========================================================================
	// STEP 5: WRITE ROW ERROR LOG
	// =========================================================================

	logPath, err := utils.WriteErrorLog(c.errorLogEntries(result.Conversions), c.config.OutputDir)
	if err != nil {
		// Log the error but don't fail the processing.
		c.logger.Warn("failed to write error log", "error", err)
	}
	result.ErrorLogFile = logPath

	// =========================================================================
	// STEP 6: ARCHIVE FILES
	// =========================================================================

	if err := c.archiveFiles(result.OutputFile, result.ManifestFile); err != nil {
		// Log the error but don't fail the processing.
		c.logger.Warn("failed to archive files", "error", err)
	}

	result.Success = true
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// readRows picks the reader from the file extension.
func (c *Converter) readRows() ([]types.Row, error) {
	switch strings.ToLower(filepath.Ext(c.inputPath)) {
	case ".csv", ".txt":
		return csvparser.Parse(c.inputPath, c.config.Batch)
	case ".xlsx", ".xlsm":
		return xlsxparser.Parse(c.inputPath, c.config.Batch)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(c.inputPath))
	}
}

// convertRow converts one row. A failure is recorded in the returned
// Conversion; the issues are those found before conversion was attempted.
func (c *Converter) convertRow(row types.Row) (types.Conversion, []*validation.Issue) {
	conversion := types.Conversion{Row: row}

	if issues := validation.ValidateRow(row); validation.HasErrors(issues) {
		messages := make([]string, len(issues))
		for i, issue := range issues {
			messages[i] = issue.Message
		}
		conversion.Error = strings.Join(messages, "; ")
		return conversion, issues
	}

	amountValue, err := amount.Parse(row.Amount)
	if err != nil {
		conversion.Error = err.Error()
		return conversion, nil
	}
	conversion.AmountValue = amountValue
	conversion.MerchantName = qris.ExtractMerchantName(row.Payload)

	dynamic, err := c.convert(row.Payload, amountValue)
	if err != nil {
		conversion.Error = err.Error()
		return conversion, nil
	}
	conversion.DynamicPayload = dynamic

	if c.config.Batch.RenderPNG && !c.options.DryRun {
		conversion.ImageFile = c.renderImage(row, dynamic)
	}

	return conversion, nil
}

// renderImage writes the row's QR image. Rendering problems do not fail the
// row; the payload is still valid.
func (c *Converter) renderImage(row types.Row, payload string) string {
	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		c.logger.Warn("failed to create output directory", "error", err)
		return ""
	}

	name := fmt.Sprintf("%s_row%d.png", utils.BaseName(c.inputPath), row.Number)
	path := filepath.Join(c.config.OutputDir, name)

	opts := render.Options{Size: c.config.Render.Size, Level: c.config.Render.Level}
	if err := render.WriteFile(payload, path, opts); err != nil {
		c.logger.Warn("failed to render QR image", "row", row.Number, "error", err)
		return ""
	}
	return path
}

// writeManifest writes the XML manifest for the run.
func (c *Converter) writeManifest(path string, conversions []types.Conversion) error {
	doc, err := xmlwriter.Generate(filepath.Base(c.inputPath), conversions)
	if err != nil {
		return err
	}
	return os.WriteFile(path, doc, 0644)
}

// errorLogEntries lists the failed rows.
func (c *Converter) errorLogEntries(conversions []types.Conversion) []utils.ErrorLogEntry {
	var entries []utils.ErrorLogEntry
	now := time.Now()
	for _, conversion := range conversions {
		if conversion.Succeeded() {
			continue
		}
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    now,
			FileName:     filepath.Base(c.inputPath),
			ErrorType:    "conversion",
			ErrorMessage: conversion.Error,
			RowNumber:    conversion.Row.Number,
			Label:        conversion.Row.Label,
			Payload:      conversion.Row.Payload,
		})
	}
	return entries
}

// archiveFiles moves the input to the input archive and copies the results
// to the output archive.
func (c *Converter) archiveFiles(outputs ...string) error {
	if _, err := c.files.ArchiveInputFile(c.inputPath); err != nil {
		return err
	}
	for _, output := range outputs {
		if output == "" {
			continue
		}
		if _, err := c.files.ArchiveOutputFile(output); err != nil {
			return err
		}
	}
	return nil
}
