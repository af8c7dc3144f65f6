// =============================================================================
// QRIS Dynamic Converter - Checksum Verification
// =============================================================================
//
// A received payload must end with tag 63 holding exactly 4 uppercase hex
// characters: the CRC of every character before them, "6304" included.
//
// =============================================================================

package qris

import (
	"fmt"
	"strings"
)

// VerifyChecksum checks that raw ends with a tag 63 field whose value is the
// CRC of everything preceding that value.
func VerifyChecksum(raw string) error {
	fields, err := Decode(raw)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	last := fields[len(fields)-1]
	if last.Tag != TagCRC || last.Length() != 4 {
		return fmt.Errorf("%w: payload does not end with a 4-character tag %s", ErrMalformedPayload, TagCRC)
	}

	want := ChecksumHex(raw[:len(raw)-4])
	if last.Value == want {
		return nil
	}
	if strings.ToUpper(last.Value) == want {
		return fmt.Errorf("%w: payload carries %s, checksum must be uppercase %s", ErrChecksumMismatch, last.Value, want)
	}
	return fmt.Errorf("%w: payload carries %s, computed %s", ErrChecksumMismatch, last.Value, want)
}
