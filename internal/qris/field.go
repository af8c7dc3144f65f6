// =============================================================================
// QRIS Dynamic Converter - Field Model
// =============================================================================
//
// A payload is an ordered slice of Field values. The length of a field is
// never stored: it is always derived from the value so that an edited value
// can never be serialized with a stale length.
//
// =============================================================================

package qris

// =============================================================================
// WELL-KNOWN TAGS
// =============================================================================

const (
	TagPayloadFormat     = "00"
	TagInitiationMethod  = "01"
	TagMerchantCategory  = "52"
	TagCurrency          = "53"
	TagAmount            = "54"
	TagCountry           = "58"
	TagMerchantName      = "59"
	TagMerchantCity      = "60"
	TagPostalCode        = "61"
	TagAdditionalData    = "62"
	TagCRC               = "63"
	TagLanguageTemplate  = "64"
	TagNationalTemplate  = "51"
	firstAccountTemplate = "26"
)

// Point-of-initiation method values carried by tag 01.
const (
	InitiationStatic  = "11"
	InitiationDynamic = "12"
)

// crcHeader is tag 63 followed by its fixed length; the CRC is computed over
// the serialized fields plus this header.
const crcHeader = TagCRC + "04"

// maxValueLength is the largest length the two-digit length segment can hold.
const maxValueLength = 99

// =============================================================================
// FIELD
// =============================================================================

// Field is one tag-length-value element of a payload.
type Field struct {
	// Tag is the two-digit identifier, e.g. "59" for the merchant name.
	Tag string

	// Value is the raw ASCII value. Template fields (26-51, 62, 64) hold
	// nested TLV here; see Template.
	Value string
}

// Length returns the encoded length of the field value.
func (f Field) Length() int {
	return len(f.Value)
}

// String returns the wire form of the field. Values that are too long are
// still rendered; Encode is the place where that is rejected.
func (f Field) String() string {
	return f.Tag + twoDigits(f.Length()) + f.Value
}

// Find returns the first field with the given tag.
func Find(fields []Field, tag string) (Field, bool) {
	if i := indexOf(fields, tag); i >= 0 {
		return fields[i], true
	}
	return Field{}, false
}

func indexOf(fields []Field, tag string) int {
	for i, f := range fields {
		if f.Tag == tag {
			return i
		}
	}
	return -1
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10%10), byte('0' + n%10)})
}
