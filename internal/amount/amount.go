// =============================================================================
// QRIS Dynamic Converter - Amount Handling
// =============================================================================
//
// Amounts are whole Rupiah carried as int64. Input text is accepted the way
// a cashier types or pastes it: an "Rp" prefix, surrounding spaces and
// thousands grouping are ignored, so "Rp 25.000", "25,000" and "25000" all
// parse to 25000. Anything with a fractional part is rejected.
//
// =============================================================================

package amount

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
)

// MaxDigits is the longest amount accepted, i.e. amounts up to 10^15 - 1.
const MaxDigits = 15

// Parse extracts a positive amount from s.
//
// Grouping must be regular: one separator kind ("." or ","), a leading group
// of one to three digits and three digits in every group after it. "12.50",
// "7,5" and "25.000,50" are fractional and fail.
//
// RETURNS:
//   - The amount.
//   - qris.ErrInvalidAmount (wrapped) when s is negative, fractional, holds
//     any other non-digit, only zeros, or more than MaxDigits significant
//     digits.
func Parse(s string) (int64, error) {
	text := strings.TrimSpace(s)
	if strings.Contains(text, "-") {
		return 0, fmt.Errorf("%w: %q is negative", qris.ErrInvalidAmount, s)
	}
	if len(text) >= 2 && strings.EqualFold(text[:2], "rp") {
		text = strings.TrimPrefix(text[2:], ".")
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return 0, fmt.Errorf("%w: %q contains no digits", qris.ErrInvalidAmount, s)
	}

	digits, err := ungroup(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q %v", qris.ErrInvalidAmount, s, err)
	}

	trimmed := strings.TrimLeft(digits, "0")
	switch {
	case trimmed == "":
		return 0, fmt.Errorf("%w: amount must be greater than 0", qris.ErrInvalidAmount)
	case len(trimmed) > MaxDigits:
		return 0, fmt.Errorf("%w: more than %d digits", qris.ErrInvalidAmount, MaxDigits)
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", qris.ErrInvalidAmount, err)
	}
	return n, nil
}

// ungroup removes thousands separators from text and returns the digits.
func ungroup(text string) (string, error) {
	sep := ""
	switch {
	case strings.Contains(text, ".") && strings.Contains(text, ","):
		return "", fmt.Errorf("has a fractional part")
	case strings.Contains(text, "."):
		sep = "."
	case strings.Contains(text, ","):
		sep = ","
	}

	groups := []string{text}
	if sep != "" {
		groups = strings.Split(text, sep)
	}
	for i, g := range groups {
		if g == "" || !allDigits(g) {
			return "", fmt.Errorf("is not a whole number")
		}
		if sep == "" {
			continue
		}
		if (i == 0 && len(g) > 3) || (i > 0 && len(g) != 3) {
			return "", fmt.Errorf("has a fractional part or irregular grouping")
		}
	}
	return strings.Join(groups, ""), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatRupiah renders n for display with Indonesian digit grouping,
// e.g. 25000 -> "Rp 25.000".
func FormatRupiah(n int64) string {
	p := message.NewPrinter(language.Indonesian)
	return p.Sprintf("Rp %d", n)
}
