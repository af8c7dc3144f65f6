// =============================================================================
// QRIS Dynamic Converter - Codec Errors
// =============================================================================
//
// Every failure returned by this package wraps one of the sentinel errors
// below, so callers can branch with errors.Is regardless of the context text
// that was added along the way.
//
// =============================================================================

package qris

import "errors"

var (
	// ErrMalformedPayload is returned when the raw payload cannot be walked
	// as a flat TLV sequence: a truncated tag/length header, a length that is
	// not two decimal digits, or a declared length that runs past the end.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrFieldTooLong is returned by Encode when a value does not fit in the
	// two-digit length encoding.
	ErrFieldTooLong = errors.New("field too long")

	// ErrInvalidAmount is returned when a conversion is requested for an
	// amount lower than 1.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMissingInitiationMethod is returned by ConvertStrict when the payload
	// carries no point-of-initiation field (tag 01).
	ErrMissingInitiationMethod = errors.New("missing point-of-initiation method")

	// ErrChecksumMismatch is returned by VerifyChecksum when the trailing CRC
	// does not match the payload.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
