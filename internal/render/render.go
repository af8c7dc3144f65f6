// =============================================================================
// QRIS Dynamic Converter - QR Renderer
// =============================================================================
//
// Turns a payload string into a scannable PNG. The payload is rendered as-is;
// nothing here knows about the TLV structure.
//
// =============================================================================

package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Defaults match the size and error-correction level the payment app shows.
const (
	DefaultSize  = 240
	DefaultLevel = "medium"
)

// ErrEmptyPayload is returned when asked to render an empty string.
var ErrEmptyPayload = errors.New("empty payload")

// Options controls the rendered image.
type Options struct {
	// Size is the PNG width and height in pixels.
	Size int

	// Level is "low", "medium", "high" or "highest".
	Level string
}

// Render encodes payload as a PNG image.
func Render(payload string, opts Options) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	opts = withDefaults(opts)
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(payload, level, opts.Size)
	if err != nil {
		return nil, fmt.Errorf("could not generate a QR code: %w", err)
	}
	return png, nil
}

// WriteFile renders payload and writes the PNG to path.
func WriteFile(payload, path string, opts Options) error {
	png, err := Render(payload, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write QR image: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a recovery level.
func ParseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(name) {
	case "low", "l":
		return qrcode.Low, nil
	case "", "medium", "m":
		return qrcode.Medium, nil
	case "high", "q":
		return qrcode.High, nil
	case "highest", "h":
		return qrcode.Highest, nil
	}
	return qrcode.Medium, fmt.Errorf("unknown error-correction level %q", name)
}

func withDefaults(opts Options) Options {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Level == "" {
		opts.Level = DefaultLevel
	}
	return opts
}
