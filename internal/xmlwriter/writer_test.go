package xmlwriter

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/qris-dynamic/internal/types"
)

type manifest struct {
	XMLName     xml.Name `xml:"qrisManifest"`
	Source      string   `xml:"source,attr"`
	Converted   int      `xml:"converted,attr"`
	Failed      int      `xml:"failed,attr"`
	Conversions []struct {
		N              int    `xml:"n,attr"`
		Row            int    `xml:"row,attr"`
		Status         string `xml:"status,attr"`
		Label          string `xml:"Label"`
		MerchantName   string `xml:"MerchantName"`
		Amount         string `xml:"Amount"`
		StaticPayload  string `xml:"StaticPayload"`
		DynamicPayload string `xml:"DynamicPayload"`
		Error          string `xml:"Error"`
	} `xml:"conversion"`
}

func sampleConversions() []types.Conversion {
	return []types.Conversion{
		{
			Row:            types.Row{Number: 2, Payload: "static-1", Amount: "25000", Label: "table <4> & co"},
			MerchantName:   "saktiJaya",
			AmountValue:    25000,
			DynamicPayload: "dynamic-1",
		},
		{
			Row:   types.Row{Number: 3, Payload: "0002", Amount: "10"},
			Error: "malformed payload",
		},
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	out, err := Generate("orders.csv", sampleConversions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), xml.Header))

	var doc manifest
	require.NoError(t, xml.Unmarshal(out, &doc))

	assert.Equal(t, "orders.csv", doc.Source)
	assert.Equal(t, 1, doc.Converted)
	assert.Equal(t, 1, doc.Failed)
	require.Len(t, doc.Conversions, 2)

	first := doc.Conversions[0]
	assert.Equal(t, 1, first.N)
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "ok", first.Status)
	assert.Equal(t, "table <4> & co", first.Label)
	assert.Equal(t, "25000", first.Amount)
	assert.Equal(t, "dynamic-1", first.DynamicPayload)

	second := doc.Conversions[1]
	assert.Equal(t, "failed", second.Status)
	assert.Equal(t, "malformed payload", second.Error)
	assert.Empty(t, second.Amount)
}

func TestGenerate_OmitsEmptyElements(t *testing.T) {
	out, err := Generate("orders.csv", sampleConversions()[1:])
	require.NoError(t, err)

	text := string(out)
	assert.NotContains(t, text, "<DynamicPayload>")
	assert.NotContains(t, text, "<Label>")
	assert.Contains(t, text, "    <Error>malformed payload</Error>\n")
}

func TestGenerateWithOptions(t *testing.T) {
	options := DefaultGenerateOptions()
	options.IncludeXMLDeclaration = false
	options.IncludeStaticPayload = false

	out, err := GenerateWithOptions("orders.csv", sampleConversions(), options)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<qrisManifest "))
	assert.NotContains(t, string(out), "StaticPayload")

	options.RootElement = ""
	_, err = GenerateWithOptions("orders.csv", nil, options)
	assert.Error(t, err)
}

func TestGenerate_Empty(t *testing.T) {
	out, err := GenerateWithOptions("empty.csv", nil, GenerateOptions{RootElement: "qrisManifest", ConversionElement: "conversion"})
	require.NoError(t, err)
	assert.Equal(t, `<qrisManifest source="empty.csv" converted="0" failed="0"/>`+"\n", string(out))
}
