// =============================================================================
// QRIS Dynamic Converter - Shared Types
// =============================================================================
//
// This package contains the batch row types shared by the readers, the
// validator and the writers, so none of them has to import the converter.
// Types defined here are used by:
//   - csvparser / xlsxparser
//   - validation
//   - converter
//   - xlsxwriter / xmlwriter
//
// =============================================================================

package types

// =============================================================================
// BATCH ROW TYPES
// =============================================================================

// Row is one requested conversion read from a batch input file.
type Row struct {
	// Number is the 1-indexed row number in the source file, header included.
	// Useful for error reporting.
	Number int

	// Payload is the static QRIS payload text.
	Payload string

	// Amount is the amount as written in the file, e.g. "25000" or "Rp 25.000".
	Amount string

	// Label is an optional free-text reference copied to the output.
	Label string
}

// Conversion is the outcome of converting one Row.
type Conversion struct {
	Row Row

	// MerchantName is taken from the static payload (tag 59).
	MerchantName string

	// AmountValue is the parsed amount; zero when parsing failed.
	AmountValue int64

	// DynamicPayload is empty when the conversion failed.
	DynamicPayload string

	// ImageFile is the rendered QR image, when rendering is enabled.
	ImageFile string

	// Error describes why the row failed; empty on success.
	Error string
}

// Succeeded reports whether the row produced a dynamic payload.
func (c Conversion) Succeeded() bool {
	return c.Error == "" && c.DynamicPayload != ""
}
