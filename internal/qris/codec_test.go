package qris_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
)

func TestDecode_Static(t *testing.T) {
	fields, err := qris.Decode(staticPayload)
	require.NoError(t, err)

	tags := make([]string, len(fields))
	for i, f := range fields {
		tags[i] = f.Tag
	}
	assert.Equal(t, []string{"00", "01", "26", "51", "52", "53", "58", "59", "60", "61", "63"}, tags)

	assert.Equal(t, qris.Field{Tag: "00", Value: "01"}, fields[0])
	assert.Equal(t, qris.Field{Tag: "01", Value: "11"}, fields[1])
	assert.Equal(t, 66, fields[2].Length())
	assert.Equal(t, qris.Field{Tag: "53", Value: "360"}, fields[5])
	assert.Equal(t, qris.Field{Tag: "59", Value: "saktiJaya"}, fields[7])
	assert.Equal(t, qris.Field{Tag: "63", Value: "4E02"}, fields[10])
}

func TestDecode_Empty(t *testing.T) {
	fields, err := qris.Decode("")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDecode_ZeroLengthValue(t *testing.T) {
	fields, err := qris.Decode("5900" + "000201")
	require.NoError(t, err)
	assert.Equal(t, []qris.Field{{Tag: "59", Value: ""}, {Tag: "00", Value: "01"}}, fields)
}

func TestDecode_KeepsDuplicates(t *testing.T) {
	fields, err := qris.Decode("5901A5901B")
	require.NoError(t, err)
	assert.Equal(t, []qris.Field{{Tag: "59", Value: "A"}, {Tag: "59", Value: "B"}}, fields)
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"one character", "0"},
		{"three characters", "000"},
		{"truncated trailing header", "000201" + "59"},
		{"non numeric length", "00AB01"},
		{"signed length", "00+1A"},
		{"negative length", "00-1A"},
		{"length overruns input", "000501"},
		{"length overruns by one", "5910saktiJaya"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fields, err := qris.Decode(c.in)
			assert.ErrorIs(t, err, qris.ErrMalformedPayload)
			assert.Nil(t, fields)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, p := range []string{staticPayload, dynamicPayload, noCurrencyPayload, "", "5900", "5901A5901B"} {
		fields, err := qris.Decode(p)
		require.NoError(t, err)

		out, err := qris.Encode(fields)
		require.NoError(t, err)
		assert.Equal(t, p, out)
	}
}

func TestEncode_RecomputesLength(t *testing.T) {
	out, err := qris.Encode([]qris.Field{{Tag: "59", Value: "saktiJaya"}, {Tag: "54", Value: "7"}})
	require.NoError(t, err)
	assert.Equal(t, "5909saktiJaya54017", out)
}

func TestEncode_FieldTooLong(t *testing.T) {
	_, err := qris.Encode([]qris.Field{{Tag: "59", Value: strings.Repeat("x", 99)}})
	require.NoError(t, err)

	_, err = qris.Encode([]qris.Field{{Tag: "59", Value: strings.Repeat("x", 100)}})
	assert.ErrorIs(t, err, qris.ErrFieldTooLong)
}

func TestEncode_BadTag(t *testing.T) {
	_, err := qris.Encode([]qris.Field{{Tag: "5", Value: "x"}})
	assert.ErrorIs(t, err, qris.ErrMalformedPayload)
}

func TestFind(t *testing.T) {
	fields := []qris.Field{{Tag: "59", Value: "A"}, {Tag: "59", Value: "B"}}

	f, ok := qris.Find(fields, "59")
	assert.True(t, ok)
	assert.Equal(t, "A", f.Value)

	_, ok = qris.Find(fields, "60")
	assert.False(t, ok)
}
