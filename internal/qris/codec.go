// =============================================================================
// QRIS Dynamic Converter - TLV Codec
// =============================================================================
//
// Bidirectional transform between the flat wire string and []Field.
//
// WIRE FORMAT:
//   Each field is TT LL V...V where TT is the two-digit tag, LL the two-digit
//   decimal length of the value and V the value itself. There is no outer
//   framing: decoding continues until the input is exhausted.
//
//   "000201" -> Field{Tag: "00", Value: "01"}
//
// Decoding is a single forward pass with no lookahead or backtracking.
//
// =============================================================================

package qris

import (
	"fmt"
	"strings"
)

// headerLength is the size of the tag plus length segments.
const headerLength = 4

// Decode parses a raw payload into its ordered fields.
//
// An empty payload decodes to an empty slice. Nested templates are kept as
// opaque values; use Field.Template to look inside them.
//
// RETURNS:
//   - The fields in wire order, duplicates included.
//   - ErrMalformedPayload (wrapped with the offending offset) when the header
//     is truncated, the length is not two digits, or the value overruns the
//     input.
func Decode(raw string) ([]Field, error) {
	fields := make([]Field, 0, 16)

	cursor := 0
	for cursor < len(raw) {
		if len(raw)-cursor < headerLength {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformedPayload, cursor)
		}

		tag := raw[cursor : cursor+2]
		length, ok := parseLength(raw[cursor+2 : cursor+4])
		if !ok {
			return nil, fmt.Errorf("%w: invalid length %q for tag %s at offset %d",
				ErrMalformedPayload, raw[cursor+2:cursor+4], tag, cursor)
		}

		start := cursor + headerLength
		if length > len(raw)-start {
			return nil, fmt.Errorf("%w: tag %s declares %d characters but only %d remain",
				ErrMalformedPayload, tag, length, len(raw)-start)
		}

		fields = append(fields, Field{Tag: tag, Value: raw[start : start+length]})
		cursor = start + length
	}

	return fields, nil
}

// Encode serializes fields back to the wire format. The length segment is
// always recomputed from the current value.
//
// RETURNS:
//   - The concatenated wire string.
//   - ErrFieldTooLong when a value exceeds 99 characters.
//   - ErrMalformedPayload when a tag is not exactly two characters.
func Encode(fields []Field) (string, error) {
	var b strings.Builder
	for _, f := range fields {
		if len(f.Tag) != 2 {
			return "", fmt.Errorf("%w: tag %q must be two characters", ErrMalformedPayload, f.Tag)
		}
		if f.Length() > maxValueLength {
			return "", fmt.Errorf("%w: tag %s has %d characters (max %d)",
				ErrFieldTooLong, f.Tag, f.Length(), maxValueLength)
		}
		b.WriteString(f.String())
	}
	return b.String(), nil
}

// parseLength accepts exactly two ASCII decimal digits. strconv.Atoi is not
// used because it would accept signs such as "+9" or "-1".
func parseLength(s string) (int, bool) {
	if len(s) != 2 || !isDigit(s[0]) || !isDigit(s[1]) {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
