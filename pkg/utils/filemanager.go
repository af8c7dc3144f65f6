// =============================================================================
// QRIS Dynamic Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling used by batch conversion:
//   - Input discovery by glob pattern
//   - Archival of processed inputs and results
//   - Output file naming
//   - Row error logs and run summaries
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after a successful run
//   - Result workbooks and manifests are copied to output_archive
//   - Files that failed to process stay in the input directory, so the next
//     run picks them up again
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for batch conversion.
type FileManager struct {
	// InputDir is the directory where batch files are placed.
	InputDir string

	// OutputDir is the directory where results are written.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// OutputArchiveDir is the directory for archived results.
	OutputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in archives.
	// Example: input_archive/2024/01/15/orders.csv
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether files are archived at all. Dry
	// runs turn it off.
	ArchiveOnSuccess bool

	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		ArchiveOnSuccess: true,
		now:              time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.InputArchiveDir,
		fm.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans the input directory for files matching any of the
// patterns.
//
// PARAMETERS:
//   - patterns: Glob patterns matched against file names (e.g., "*.csv").
//               If none are given, "*.csv" is used.
//
// RETURNS:
//   - The matching file paths, sorted and without duplicates.
//   - An error if a pattern is malformed.
func (fm *FileManager) DiscoverInputFiles(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"*.csv"}
	}

	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan input directory: %w", err)
		}

		for _, file := range files {
			if seen[file] {
				continue
			}
			info, err := os.Stat(file)
			if err != nil || info.IsDir() {
				continue
			}
			seen[file] = true
			result = append(result, file)
		}
	}

	sort.Strings(result)
	return result, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// RETURNS:
//   - The path to the archived file (the original path when archiving is off).
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.InputArchiveDir, filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// Rename fails across devices; fall back to copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// ArchiveOutputFile copies an output file to the archive directory. The
// output stays where it is.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(fm.OutputArchiveDir, filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(archiveDir, filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := fm.clock()
		return filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}

	return filepath.Join(archiveDir, fileName)
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the base name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {name}      - Input file name without extension (via params)
//   - params: Additional placeholder values, keyed without braces.
//   - extension: The extension to ensure, e.g. ".xlsx".
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format:    "{name}_{timestamp}"
//   params:    {"name": "orders"}
//   extension: ".xlsx"
//   output:    "orders_20240115_143022.xlsx"
func GenerateOutputFileName(format string, params map[string]string, extension string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry is one failed batch row.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	ErrorType    string
	ErrorMessage string
	RowNumber    int
	Label        string
	Payload      string
}

// WriteErrorLog writes error entries to a log file in outputDir.
//
// RETURNS:
//   - The path to the error log file; empty when there is nothing to log.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s_%s.txt", timestamp, uuid.New().String()[:8]))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "QRIS Dynamic Converter - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:      %s\n"+
			"  File:           %s\n"+
			"  Error Type:     %s\n"+
			"  Message:        %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorType,
			entry.ErrorMessage)

		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number:     %d\n", entry.RowNumber)
		}
		if entry.Label != "" {
			fmt.Fprintf(writer, "  Label:          %s\n", entry.Label)
		}
		if entry.Payload != "" {
			fmt.Fprintf(writer, "  Payload:        %s\n", entry.Payload)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a batch run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	ConvertedRows   int
	FailedRows      int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile    string
	OutputFile   string
	ManifestFile string
	Rows         int
	Converted    int
	Failed       int
	ProcessTime  time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a run summary to a file in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "QRIS Dynamic Converter - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n"+
		"  Converted Rows: %d\n"+
		"  Failed Rows:    %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.ConvertedRows,
		summary.FailedRows)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			if pf.ManifestFile != "" {
				fmt.Fprintf(writer, "  Manifest:     %s\n", pf.ManifestFile)
			}
			fmt.Fprintf(writer, "  Rows:         %d (converted %d, failed %d)\n", pf.Rows, pf.Converted, pf.Failed)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
