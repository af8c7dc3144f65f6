package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "00020101021253033605405250005802ID5909saktiJaya6304ABCD"

func TestRender_DefaultSize(t *testing.T) {
	data, err := Render(payload, Options{})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
	assert.Equal(t, DefaultSize, img.Bounds().Dy())
}

func TestRender_CustomSize(t *testing.T) {
	data, err := Render(payload, Options{Size: 512, Level: "high"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("", Options{})
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = Render(payload, Options{Level: "ultra"})
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	require.NoError(t, WriteFile(payload, path, Options{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]qrcode.RecoveryLevel{
		"low":     qrcode.Low,
		"":        qrcode.Medium,
		"MEDIUM":  qrcode.Medium,
		"high":    qrcode.High,
		"highest": qrcode.Highest,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
