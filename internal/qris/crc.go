// =============================================================================
// QRIS Dynamic Converter - CRC Engine
// =============================================================================
//
// CRC-16/CCITT-FALSE as required by EMVCo merchant-presented QR:
//   - polynomial 0x1021
//   - initial register 0xFFFF
//   - no input/output reflection, no final XOR
//
// Check values: "" -> FFFF, "123456789" -> 29B1.
//
// =============================================================================

package qris

import "fmt"

const (
	crcPolynomial uint16 = 0x1021
	crcInitial    uint16 = 0xFFFF
)

// Checksum computes the CRC-16/CCITT-FALSE of data.
func Checksum(data []byte) uint16 {
	crc := crcInitial
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ChecksumHex computes the checksum of s and formats it as exactly four
// uppercase hexadecimal digits, which is the value carried by tag 63.
func ChecksumHex(s string) string {
	return formatChecksum(Checksum([]byte(s)))
}

func formatChecksum(crc uint16) string {
	return fmt.Sprintf("%04X", crc)
}
