// =============================================================================
// QRIS Dynamic Converter - Nested Templates
// =============================================================================
//
// Some top-level values are themselves TLV sequences, e.g. tag 51 carries the
// national merchant ID under sub-tag 02. They are decoded only on request.
//
// =============================================================================

package qris

import "fmt"

// IsTemplate reports whether values under tag hold nested TLV: the merchant
// account information range 26-51, additional data (62) and the language
// template (64).
func IsTemplate(tag string) bool {
	if len(tag) != 2 || !isDigit(tag[0]) || !isDigit(tag[1]) {
		return false
	}
	switch tag {
	case TagAdditionalData, TagLanguageTemplate:
		return true
	}
	return tag >= firstAccountTemplate && tag <= TagNationalTemplate
}

// Template decodes the field value as nested TLV. Nothing is decoded until
// this is called; payload edits always treat the value as opaque.
func (f Field) Template() ([]Field, error) {
	sub, err := Decode(f.Value)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", f.Tag, err)
	}
	return sub, nil
}
