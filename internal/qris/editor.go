// =============================================================================
// QRIS Dynamic Converter - Field Editor
// =============================================================================
//
// Turns the fields of a static payload into the fields of a dynamic one.
//
// EDIT STEPS (in this order):
//   1. The first tag 01 is set to "12" (dynamic). When tag 01 is absent nothing is
//      inserted; ConvertStrict exists for callers that want that rejected.
//   2. Every tag 54 (amount) and tag 63 (checksum) is removed.
//   3. A new tag 54 carrying the amount is placed right after the first
//      tag 53 (currency), or appended when there is no currency field.
//
// The checksum is not added here because it depends on the serialized bytes.
//
// =============================================================================

package qris

import "strconv"

// ApplyAmount returns a new field slice with the dynamic-mode edits applied.
// The input slice is not modified. Amount validity is the caller's contract.
func ApplyAmount(fields []Field, amount int64) []Field {
	edited := make([]Field, 0, len(fields)+1)

	flagged := false
	for _, f := range fields {
		switch f.Tag {
		case TagAmount, TagCRC:
			continue
		case TagInitiationMethod:
			// Only the first occurrence is the point-of-initiation field.
			if !flagged {
				f.Value = InitiationDynamic
				flagged = true
			}
		}
		edited = append(edited, f)
	}

	amountField := Field{Tag: TagAmount, Value: strconv.FormatInt(amount, 10)}

	currency := indexOf(edited, TagCurrency)
	if currency < 0 {
		return append(edited, amountField)
	}

	edited = append(edited, Field{})
	copy(edited[currency+2:], edited[currency+1:])
	edited[currency+1] = amountField
	return edited
}
