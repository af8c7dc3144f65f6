// =============================================================================
// QRIS Dynamic Converter - Batch Command
// =============================================================================
//
// This file defines the 'batch' command, which converts every row of the CSV
// and XLSX files waiting in the input directory.
//
// COMMAND USAGE:
//   qris batch [flags]
//
// FLAGS:
//   --dry-run : Convert and report without writing or moving any file
//   --file    : Process only this file instead of scanning the input directory
//
// PROCESSING PIPELINE:
//   1. Discover input files (batch.file_patterns in input_dir)
//   2. For each file (concurrently, at most max_concurrency at a time):
//      a. Read the rows
//      b. Convert each row
//      c. Write the result workbook (and manifest)
//      d. Archive the input
//   3. Print and write the summary
//
// Errors in one file do not stop the others. A failed file stays in the
// input directory.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/qris-dynamic/internal/amount"
	"github.com/ginjaninja78/qris-dynamic/internal/converter"
	"github.com/ginjaninja78/qris-dynamic/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun converts without writing output files.
var dryRun bool

// filePath is a single file to process instead of the input directory.
var filePath string

// =============================================================================
// BATCH COMMAND DEFINITION
// =============================================================================

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert the CSV and XLSX files in the input directory",
	Long: `The batch command scans the input directory for CSV and XLSX files. Each
file has a header row naming a payload column and an amount column (and
optionally a label column); every row is converted to a dynamic payload.

Files are processed concurrently. Each file is processed independently, and
errors in one file do not affect the processing of others.

On successful processing:
  - A result workbook (and optionally an XML manifest) is written to the
    output directory, with one line per input row
  - The input file is moved to the input archive
  - A summary report is generated

On error:
  - The input file remains in the input directory
  - Processing continues for other files`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Convert and report without writing or moving any file",
	)

	batchCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Process only this file",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runBatch orchestrates the batch run.
func runBatch(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	files := utils.NewFileManager(appConfig.InputDir, appConfig.OutputDir, appConfig.InputArchiveDir, appConfig.OutputArchiveDir)

	var inputFiles []string
	if filePath != "" {
		if !utils.FileExists(filePath) {
			return fmt.Errorf("file not found: %s", filePath)
		}
		inputFiles = []string{filePath}
	} else {
		var err error
		inputFiles, err = files.DiscoverInputFiles(appConfig.Batch.FilePatterns...)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintf(out, "No batch files found in %s.\n", appConfig.InputDir)
		return nil
	}

	logger.Info("batch started", "files", len(inputFiles), "dry_run", dryRun)
	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	results := make(chan converter.Result, len(inputFiles))

	group, groupCtx := errgroup.WithContext(ctx)
	if appConfig.MaxConcurrency > 0 {
		group.SetLimit(appConfig.MaxConcurrency)
	}

	for _, file := range inputFiles {
		file := file
		group.Go(func() error {
			conv := converter.New(file, appConfig, logger, converter.Options{DryRun: dryRun})
			results <- conv.Run(groupCtx)
			return nil
		})
	}

	go func() {
		group.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 3: COLLECT RESULTS AND GENERATE SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(inputFiles),
	}

	for result := range results {
		name := filepath.Base(result.FilePath)
		summary.TotalRows += result.Stats.RowsRead
		summary.ConvertedRows += result.Stats.Converted
		summary.FailedRows += result.Stats.Failed

		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    name,
				ErrorMessage: result.Error.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
			continue
		}

		summary.SuccessfulFiles++
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:    name,
			OutputFile:   result.OutputFile,
			ManifestFile: result.ManifestFile,
			Rows:         result.Stats.RowsRead,
			Converted:    result.Stats.Converted,
			Failed:       result.Stats.Failed,
			ProcessTime:  result.Stats.ProcessingTime,
		})

		if dryRun {
			fmt.Fprintf(out, "  ✓ %s (%d/%d rows)\n", name, result.Stats.Converted, result.Stats.RowsRead)
			printConversions(out, result)
		} else {
			fmt.Fprintf(out, "  ✓ %s -> %s (%d/%d rows)\n", name, result.OutputFile, result.Stats.Converted, result.Stats.RowsRead)
		}
	}
	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Batch Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Rows converted:  %d of %d\n", summary.ConvertedRows, summary.TotalRows)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime).Round(time.Millisecond))

	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
		summaryPath, err := utils.WriteSummaryLog(summary, appConfig.OutputDir)
		if err != nil {
			logger.Warn("failed to write summary", "error", err)
		} else {
			fmt.Fprintf(out, "Summary:         %s\n", summaryPath)
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// printConversions lists each row of a dry run.
func printConversions(out io.Writer, result converter.Result) {
	for _, c := range result.Conversions {
		if c.Succeeded() {
			fmt.Fprintf(out, "      row %d  %s  %s\n        %s\n",
				c.Row.Number, c.MerchantName, amount.FormatRupiah(c.AmountValue), c.DynamicPayload)
			continue
		}
		fmt.Fprintf(out, "      row %d  failed: %s\n", c.Row.Number, c.Error)
	}
}
