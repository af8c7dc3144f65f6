// =============================================================================
// QRIS Dynamic Converter - XML Manifest Writer
// =============================================================================
//
// This module writes an XML manifest describing every row of a batch run. The
// manifest is optional (batch.write_manifest) and sits next to the result
// workbook so downstream systems can pick up the dynamic payloads without an
// XLSX reader.
//
// XML STRUCTURE:
//
//   <qrisManifest source="orders.csv" converted="1" failed="1">
//     <conversion n="1" row="2" status="ok">
//       <Label>table 4</Label>
//       <MerchantName>saktiJaya</MerchantName>
//       <Amount>25000</Amount>
//       <StaticPayload>000201010211...</StaticPayload>
//       <DynamicPayload>000201010212...</DynamicPayload>
//       <ImageFile>orders_row2.png</ImageFile>
//     </conversion>
//     <conversion n="2" row="3" status="failed">
//       <StaticPayload>0002</StaticPayload>
//       <Error>malformed payload</Error>
//     </conversion>
//   </qrisManifest>
//
// Empty optional elements are omitted. Conversions are numbered in input
// order starting at 1.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for manifest generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement is the name of the document element.
	// Default: "qrisManifest"
	RootElement string

	// ConversionElement is the name of each per-row element.
	// Default: "conversion"
	ConversionElement string

	// IncludeStaticPayload copies the input payload into the manifest.
	// Default: true
	IncludeStaticPayload bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "qrisManifest",
		ConversionElement:     "conversion",
		IncludeStaticPayload:  true,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates a manifest document for the conversions of one batch file.
//
// PARAMETERS:
//   - source: The input file name recorded on the root element.
//   - conversions: The per-row results, in input order.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if generation fails.
func Generate(source string, conversions []types.Conversion) ([]byte, error) {
	return GenerateWithOptions(source, conversions, DefaultGenerateOptions())
}

// GenerateWithOptions creates a manifest document with custom options.
func GenerateWithOptions(source string, conversions []types.Conversion, options GenerateOptions) ([]byte, error) {
	if options.RootElement == "" || options.ConversionElement == "" {
		return nil, fmt.Errorf("root and conversion element names are required")
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	doc := buildDocument(source, conversions, options)

	xmlBytes, err := marshalWithIndent(doc, options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	buffer.Write(xmlBytes)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the manifest structure.
func buildDocument(source string, conversions []types.Conversion, options GenerateOptions) XMLElement {
	converted := 0
	for _, c := range conversions {
		if c.Succeeded() {
			converted++
		}
	}

	doc := XMLElement{
		XMLName: xml.Name{Local: options.RootElement},
		Attributes: []xml.Attr{
			attr("source", source),
			attr("converted", strconv.Itoa(converted)),
			attr("failed", strconv.Itoa(len(conversions)-converted)),
		},
	}

	for i, conversion := range conversions {
		doc.Children = append(doc.Children, buildConversionElement(i+1, conversion, options))
	}

	return doc
}

// buildConversionElement constructs one conversion element.
//
// STRUCTURE:
//   <conversion n="1" row="2" status="ok">
//     <Label>...</Label>
//     <MerchantName>...</MerchantName>
//     ...
//   </conversion>
func buildConversionElement(index int, conversion types.Conversion, options GenerateOptions) XMLElement {
	status := "ok"
	if !conversion.Succeeded() {
		status = "failed"
	}

	element := XMLElement{
		XMLName: xml.Name{Local: options.ConversionElement},
		Attributes: []xml.Attr{
			attr("n", strconv.Itoa(index)),
			attr("row", strconv.Itoa(conversion.Row.Number)),
			attr("status", status),
		},
	}

	var amount string
	if conversion.AmountValue > 0 {
		amount = strconv.FormatInt(conversion.AmountValue, 10)
	}
	var static string
	if options.IncludeStaticPayload {
		static = conversion.Row.Payload
	}

	for _, field := range []struct{ tag, value string }{
		{"Label", conversion.Row.Label},
		{"MerchantName", conversion.MerchantName},
		{"Amount", amount},
		{"StaticPayload", static},
		{"DynamicPayload", conversion.DynamicPayload},
		{"ImageFile", conversion.ImageFile},
		{"Error", conversion.Error},
	} {
		if field.value != "" {
			element.Children = append(element.Children, createSimpleElement(field.tag, field.value))
		}
	}

	return element
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// marshalWithIndent marshals the document with indentation.
func marshalWithIndent(doc XMLElement, indent string) ([]byte, error) {
	var buffer bytes.Buffer
	if err := writeElement(&buffer, doc, indent, 0); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) error {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, a := range element.Attributes {
		buffer.WriteString(" ")
		buffer.WriteString(a.Name.Local)
		buffer.WriteString(`="`)
		if err := xml.EscapeText(buffer, []byte(a.Value)); err != nil {
			return err
		}
		buffer.WriteString(`"`)
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return nil
	}

	buffer.WriteString(">")

	if element.Value != "" {
		if err := xml.EscapeText(buffer, []byte(element.Value)); err != nil {
			return err
		}
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}
		writeIndent(buffer, indent, level)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
	return nil
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}
