// =============================================================================
// QRIS Dynamic Converter - XLSX Batch Parser
// =============================================================================
//
// This module reads batch conversion requests from XLSX workbooks. The sheet
// layout is the same as for CSV batch files (see csvparser): a header row
// naming the payload, amount and optional label columns, then one request
// per row.
//
// SHEET SELECTION:
//   - batch.sheet set   : that sheet is read, and it must exist
//   - batch.sheet empty : the first sheet is read
//
// Cell values are read raw so that numeric amounts typed into the sheet are
// not reformatted (e.g. into scientific notation) before parsing.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/qris-dynamic/internal/config"
	"github.com/ginjaninja78/qris-dynamic/internal/csvparser"
	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

// Parse reads an XLSX batch workbook and returns its rows.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - batch: The batch settings (sheet and column names).
//
// RETURNS:
//   - The data rows in sheet order. Empty rows are skipped.
//   - An error if the workbook cannot be read, the sheet is missing, or the
//     required columns are missing.
func Parse(filePath string, batch config.BatchConfig) ([]types.Row, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := selectSheet(f, batch.Sheet)
	if err != nil {
		return nil, err
	}

	records, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	rows, err := csvparser.FromRecords(records, csvparser.ColumnsFromConfig(batch))
	if err != nil {
		return nil, fmt.Errorf("%s [%s]: %w", filePath, sheetName, err)
	}
	return rows, nil
}

// selectSheet resolves the configured sheet name, ignoring case.
func selectSheet(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(name, want) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (available: %s)", want, strings.Join(sheets, ", "))
}
