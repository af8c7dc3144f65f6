package qris_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/qris-dynamic/internal/qris"
)

func TestApplyAmount_AfterCurrency(t *testing.T) {
	in := []qris.Field{
		{Tag: "00", Value: "01"},
		{Tag: "01", Value: "11"},
		{Tag: "53", Value: "360"},
		{Tag: "59", Value: "saktiJaya"},
		{Tag: "63", Value: "ABCD"},
	}

	got := qris.ApplyAmount(in, 25000)

	assert.Equal(t, []qris.Field{
		{Tag: "00", Value: "01"},
		{Tag: "01", Value: "12"},
		{Tag: "53", Value: "360"},
		{Tag: "54", Value: "25000"},
		{Tag: "59", Value: "saktiJaya"},
	}, got)
}

func TestApplyAmount_DoesNotMutateInput(t *testing.T) {
	in := []qris.Field{{Tag: "01", Value: "11"}, {Tag: "53", Value: "360"}, {Tag: "63", Value: "ABCD"}}
	snapshot := append([]qris.Field(nil), in...)

	_ = qris.ApplyAmount(in, 10)

	assert.Equal(t, snapshot, in)
}

func TestApplyAmount_StripsEveryStaleField(t *testing.T) {
	in := []qris.Field{
		{Tag: "54", Value: "1"},
		{Tag: "01", Value: "11"},
		{Tag: "63", Value: "0000"},
		{Tag: "53", Value: "360"},
		{Tag: "54", Value: "2"},
		{Tag: "63", Value: "1111"},
	}

	got := qris.ApplyAmount(in, 999)

	assert.Equal(t, []qris.Field{
		{Tag: "01", Value: "12"},
		{Tag: "53", Value: "360"},
		{Tag: "54", Value: "999"},
	}, got)
}

func TestApplyAmount_AppendsWithoutCurrency(t *testing.T) {
	got := qris.ApplyAmount([]qris.Field{{Tag: "01", Value: "11"}, {Tag: "59", Value: "X"}}, 1500)
	require.Len(t, got, 3)
	assert.Equal(t, qris.Field{Tag: "54", Value: "1500"}, got[2])
}

func TestApplyAmount_FirstCurrencyOnly(t *testing.T) {
	got := qris.ApplyAmount([]qris.Field{{Tag: "53", Value: "360"}, {Tag: "53", Value: "840"}}, 5)
	assert.Equal(t, []qris.Field{
		{Tag: "53", Value: "360"},
		{Tag: "54", Value: "5"},
		{Tag: "53", Value: "840"},
	}, got)
}

func TestApplyAmount_MissingInitiationLeftAlone(t *testing.T) {
	got := qris.ApplyAmount([]qris.Field{{Tag: "00", Value: "01"}, {Tag: "53", Value: "360"}}, 5)
	_, ok := qris.Find(got, qris.TagInitiationMethod)
	assert.False(t, ok)
}

func TestApplyAmount_OnlyFirstInitiationField(t *testing.T) {
	got := qris.ApplyAmount([]qris.Field{{Tag: "01", Value: "11"}, {Tag: "01", Value: "11"}}, 5)
	assert.Equal(t, "12", got[0].Value)
	assert.Equal(t, "11", got[1].Value)
}

func TestApplyAmount_LargeAmount(t *testing.T) {
	got := qris.ApplyAmount(nil, 1_000_000_000_000_000)
	assert.Equal(t, []qris.Field{{Tag: "54", Value: "1000000000000000"}}, got)
}
