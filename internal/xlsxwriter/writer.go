// =============================================================================
// QRIS Dynamic Converter - XLSX Result Writer
// =============================================================================
//
// This module writes the result workbook of a batch run. Every input row gets
// one output row, in input order, so the workbook can be lined up with the
// file that was submitted.
//
// WORKBOOK LAYOUT:
//
//   Sheet "Conversions":
//   | Row | Label | Merchant | Amount | Static Payload | Dynamic Payload | Image | Status | Error |
//
//   Sheet "Summary":
//   | Source | Rows | Converted | Failed |
//
// Amounts are written as numbers so that spreadsheet totals work.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

const (
	// ConversionsSheet holds one row per input row.
	ConversionsSheet = "Conversions"

	// SummarySheet holds the per-file totals.
	SummarySheet = "Summary"
)

// Headers is the header row of the conversions sheet.
var Headers = []string{
	"Row", "Label", "Merchant", "Amount", "Static Payload",
	"Dynamic Payload", "Image", "Status", "Error",
}

// Write creates the result workbook at path.
//
// PARAMETERS:
//   - path: The destination .xlsx file. An existing file is replaced.
//   - source: The input file name, recorded on the summary sheet.
//   - conversions: The per-row results, in input order.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func Write(path, source string, conversions []types.Conversion) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ConversionsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeConversions(f, conversions); err != nil {
		return err
	}
	if err := writeSummary(f, source, conversions); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeConversions fills the conversions sheet.
func writeConversions(f *excelize.File, conversions []types.Conversion) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(ConversionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ConversionsSheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range conversions {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := conversionRow(c)
		if err := f.SetSheetRow(ConversionsSheet, cellName, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", c.Row.Number, err)
		}
	}

	// Payload columns are long; keep the sheet readable.
	for col, width := range map[string]float64{"B": 18, "C": 24, "D": 14, "E": 60, "F": 60, "G": 24, "I": 40} {
		if err := f.SetColWidth(ConversionsSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.SetPanes(ConversionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return nil
}

// conversionRow converts one result into sheet cells.
func conversionRow(c types.Conversion) []interface{} {
	status := "ok"
	if !c.Succeeded() {
		status = "failed"
	}

	var amount interface{}
	if c.AmountValue > 0 {
		amount = c.AmountValue
	} else {
		amount = c.Row.Amount
	}

	return []interface{}{
		c.Row.Number,
		c.Row.Label,
		c.MerchantName,
		amount,
		c.Row.Payload,
		c.DynamicPayload,
		c.ImageFile,
		status,
		c.Error,
	}
}

// writeSummary adds the summary sheet.
func writeSummary(f *excelize.File, source string, conversions []types.Conversion) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	converted := 0
	for _, c := range conversions {
		if c.Succeeded() {
			converted++
		}
	}

	rows := [][]interface{}{
		{"Source", "Rows", "Converted", "Failed"},
		{source, len(conversions), converted, len(conversions) - converted},
	}
	for i := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cellName, &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}
