// =============================================================================
// QRIS Dynamic Converter - Merchant Lookup
// =============================================================================
//
// Read-only helpers over a decoded payload. ExtractMerchantName is best
// effort: it is used for display labels and never fails.
//
// =============================================================================

package qris

// UnknownMerchant is returned by ExtractMerchantName when no name is found.
const UnknownMerchant = "Unknown Merchant"

// Sub-tags of the national QRIS template (tag 51).
const (
	subTagGlobalID   = "00"
	subTagMerchantID = "02"
)

// ExtractMerchantName returns the value of the first tag 59, or
// UnknownMerchant when the payload has none or cannot be decoded.
func ExtractMerchantName(raw string) string {
	fields, err := Decode(raw)
	if err != nil {
		return UnknownMerchant
	}
	if f, ok := Find(fields, TagMerchantName); ok {
		return f.Value
	}
	return UnknownMerchant
}

// MerchantInfo is the merchant-facing summary of a payload.
type MerchantInfo struct {
	Name         string
	City         string
	PostalCode   string
	CountryCode  string
	CategoryCode string
	CurrencyCode string

	// Amount is the raw tag 54 value; empty for static payloads.
	Amount string

	// Dynamic reports whether tag 01 carries the dynamic value "12".
	Dynamic bool

	// GlobalID and MerchantID come from the national template (tag 51),
	// e.g. "ID.CO.QRIS.WWW" and the NMID.
	GlobalID   string
	MerchantID string
}

// ExtractMerchantInfo decodes raw and collects the merchant fields. Unlike
// ExtractMerchantName it reports decode failures. A national template that
// does not decode as nested TLV is ignored.
func ExtractMerchantInfo(raw string) (MerchantInfo, error) {
	fields, err := Decode(raw)
	if err != nil {
		return MerchantInfo{}, err
	}

	info := MerchantInfo{
		Name:         valueOf(fields, TagMerchantName),
		City:         valueOf(fields, TagMerchantCity),
		PostalCode:   valueOf(fields, TagPostalCode),
		CountryCode:  valueOf(fields, TagCountry),
		CategoryCode: valueOf(fields, TagMerchantCategory),
		CurrencyCode: valueOf(fields, TagCurrency),
		Amount:       valueOf(fields, TagAmount),
		Dynamic:      valueOf(fields, TagInitiationMethod) == InitiationDynamic,
	}
	if info.Name == "" {
		info.Name = UnknownMerchant
	}

	if national, ok := Find(fields, TagNationalTemplate); ok {
		if sub, err := national.Template(); err == nil {
			info.GlobalID = valueOf(sub, subTagGlobalID)
			info.MerchantID = valueOf(sub, subTagMerchantID)
		}
	}

	return info, nil
}

func valueOf(fields []Field, tag string) string {
	f, _ := Find(fields, tag)
	return f.Value
}
