// =============================================================================
// QRIS Dynamic Converter - Conversion Orchestrator
// =============================================================================
//
// CONVERSION PIPELINE:
//   1. Reject amounts lower than 1 (before any decoding work)
//   2. Decode the static payload
//   3. Apply the dynamic-mode edits (see editor.go)
//   4. Encode the edited fields
//   5. Append the "6304" checksum header
//   6. Compute the CRC over everything so far and append it
//
// =============================================================================

package qris

import "fmt"

// Convert turns a static payload into a dynamic payload carrying amount.
//
// PARAMETERS:
//   - raw: The static payload as read from the merchant's QR code.
//   - amount: The transaction amount in whole currency units, at least 1.
//
// RETURNS:
//   - The dynamic payload, terminated by a freshly computed tag 63.
//   - ErrInvalidAmount, ErrMalformedPayload or ErrFieldTooLong (wrapped).
func Convert(raw string, amount int64) (string, error) {
	if amount < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	fields, err := Decode(raw)
	if err != nil {
		return "", err
	}

	return build(fields, amount)
}

// ConvertStrict is Convert for callers that refuse to emit a payload without
// a dynamic-mode indicator: it fails with ErrMissingInitiationMethod when the
// input has no tag 01 instead of silently leaving it out.
func ConvertStrict(raw string, amount int64) (string, error) {
	if amount < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	fields, err := Decode(raw)
	if err != nil {
		return "", err
	}

	if _, ok := Find(fields, TagInitiationMethod); !ok {
		return "", fmt.Errorf("%w: tag %s not present", ErrMissingInitiationMethod, TagInitiationMethod)
	}

	return build(fields, amount)
}

func build(fields []Field, amount int64) (string, error) {
	encoded, err := Encode(ApplyAmount(fields, amount))
	if err != nil {
		return "", err
	}

	unsigned := encoded + crcHeader
	return unsigned + ChecksumHex(unsigned), nil
}
