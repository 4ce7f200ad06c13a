package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestResizeKeepsSolidColor(t *testing.T) {
	red := color.NRGBA{R: 200, G: 10, B: 10, A: 255}
	out, err := Resize(solid(40, 20, red), 8, 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())
	assert.Equal(t, red, out.NRGBAAt(3, 5))
}

func TestResizeRejectsBadSizes(t *testing.T) {
	_, err := Resize(solid(4, 4, color.NRGBA{}), 0, 4)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Resize(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 4, 4)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestCenterSquare(t *testing.T) {
	img := solid(30, 10, color.NRGBA{A: 255})
	img.SetNRGBA(15, 5, color.NRGBA{G: 255, A: 255})
	sq := CenterSquare(img)
	assert.Equal(t, 10, sq.Bounds().Dx())
	assert.Equal(t, 10, sq.Bounds().Dy())
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, sq.(*image.NRGBA).NRGBAAt(5, 5))
}

func TestNormalizeCardArt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(64, 48, color.NRGBA{B: 255, A: 255})))

	out, err := NormalizeCardArt(buf.Bytes(), 16)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	_, err = NormalizeCardArt([]byte("not an image"), 16)
	assert.Error(t, err)
}
