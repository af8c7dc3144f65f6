// =============================================================================
// QRIS Dynamic Converter - CSV Batch Parser
// =============================================================================
//
// This module reads batch conversion requests from CSV files. The first
// non-empty row is the header row; the payload and amount columns are located
// by name (case-insensitive), so extra columns in any order are tolerated.
//
// EXPECTED LAYOUT (column names are configurable):
//
//   | payload                 | amount    | label        |
//   |-------------------------|-----------|--------------|
//   | 00020101021126...6304AB | 25000     | table 4      |
//   | 00020101021126...6304CD | Rp 15.000 | takeaway #17 |
//
// The same header/record logic is used by the XLSX reader, which hands its
// sheet rows to FromRecords.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/qris-dynamic/internal/config"
	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

// =============================================================================
// COLUMN SETTINGS
// =============================================================================

// Columns names the header cells that hold each row attribute.
type Columns struct {
	Payload string
	Amount  string

	// Label is optional; a missing label column is not an error.
	Label string
}

// ColumnsFromConfig returns the column names configured for batch input.
func ColumnsFromConfig(batch config.BatchConfig) Columns {
	return Columns{
		Payload: batch.PayloadColumn,
		Amount:  batch.AmountColumn,
		Label:   batch.LabelColumn,
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV batch file and returns its rows.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - batch: The batch settings (delimiter and column names).
//
// RETURNS:
//   - The data rows in file order. Empty rows are skipped.
//   - An error if the file cannot be read or the required columns are missing.
func Parse(filePath string, batch config.BatchConfig) ([]types.Row, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(bufio.NewReader(file))
	configureReader(csvReader, batch.Delimiter)

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	rows, err := FromRecords(records, ColumnsFromConfig(batch))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return rows, nil
}

// configureReader configures the CSV reader for batch files.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	default:
		if r := []rune(delimiter); len(r) == 1 {
			reader.Comma = r[0]
		} else {
			reader.Comma = ','
		}
	}

	// Rows exported from spreadsheets often have trailing empty cells.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// FromRecords turns raw records (header row first) into batch rows.
//
// PARAMETERS:
//   - records: All records of the file or sheet, header included.
//   - columns: The header names to look for.
//
// RETURNS:
//   - The rows; Row.Number is the 1-indexed record number in the source.
//   - An error if there is no header row or a required column is missing.
func FromRecords(records [][]string, columns Columns) ([]types.Row, error) {
	headerIndex := -1
	for i, record := range records {
		if !isRowEmpty(record) {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("file is empty")
	}

	header := cleanHeaders(records[headerIndex])
	payloadCol := columnIndex(header, columns.Payload)
	amountCol := columnIndex(header, columns.Amount)
	labelCol := columnIndex(header, columns.Label)

	if payloadCol < 0 {
		return nil, fmt.Errorf("missing %q column", columns.Payload)
	}
	if amountCol < 0 {
		return nil, fmt.Errorf("missing %q column", columns.Amount)
	}

	rows := make([]types.Row, 0, len(records)-headerIndex-1)
	for i := headerIndex + 1; i < len(records); i++ {
		record := records[i]
		if isRowEmpty(record) {
			continue
		}

		rows = append(rows, types.Row{
			Number:  i + 1,
			Payload: cell(record, payloadCol),
			Amount:  cell(record, amountCol),
			Label:   cell(record, labelCol),
		})
	}

	return rows, nil
}

// cleanHeaders trims header cells and strips a UTF-8 byte order mark, which
// spreadsheet exports commonly put in front of the first header.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// columnIndex finds name in header, ignoring case. An empty name never matches.
func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// cell returns the trimmed value at index, or "" when the row is short.
func cell(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
