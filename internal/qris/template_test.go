package qris_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
)

func TestIsTemplate(t *testing.T) {
	for _, tag := range []string{"26", "30", "45", "51", "62", "64"} {
		assert.True(t, qris.IsTemplate(tag), tag)
	}
	for _, tag := range []string{"00", "01", "25", "52", "53", "59", "63", "2A", "5", ""} {
		assert.False(t, qris.IsTemplate(tag), tag)
	}
}

func TestFieldTemplate(t *testing.T) {
	fields, err := qris.Decode(staticPayload)
	require.NoError(t, err)

	account, ok := qris.Find(fields, "26")
	require.True(t, ok)

	sub, err := account.Template()
	require.NoError(t, err)
	assert.Equal(t, []qris.Field{
		{Tag: "00", Value: "ID.CO.BANKBPD.WWW"},
		{Tag: "01", Value: "936001100000012345"},
		{Tag: "02", Value: "000000012345"},
		{Tag: "03", Value: "UMI"},
	}, sub)
}

func TestFieldTemplate_Opaque(t *testing.T) {
	_, err := qris.Field{Tag: "59", Value: "saktiJaya"}.Template()
	assert.ErrorIs(t, err, qris.ErrMalformedPayload)
}
