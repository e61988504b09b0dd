package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, w, h int, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 100, 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))

	return buf.Bytes()
}

func TestMakeThumbnailDownscales(t *testing.T) {
	src := encodeTestImage(t, 800, 600, func(b *bytes.Buffer, i image.Image) error {
		return jpeg.Encode(b, i, nil)
	})

	out, err := MakeThumbnail(src)
	require.NoError(t, err)

	thumb, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	bounds := thumb.Bounds()
	assert.LessOrEqual(t, bounds.Dx(), 200)
	assert.LessOrEqual(t, bounds.Dy(), 200)
	assert.Equal(t, 200, bounds.Dx(), "landscape source should hit the width bound")
}

func TestMakeThumbnailSmallSource(t *testing.T) {
	src := encodeTestImage(t, 10, 10, func(b *bytes.Buffer, i image.Image) error {
		return jpeg.Encode(b, i, nil)
	})

	out, err := MakeThumbnail(src)
	require.NoError(t, err)

	thumb, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 200)
}

func TestMakeThumbnailPNGSource(t *testing.T) {
	src := encodeTestImage(t, 300, 300, func(b *bytes.Buffer, i image.Image) error {
		return png.Encode(b, i)
	})

	// Output is always JPEG regardless of the source format
	out, err := MakeThumbnail(src)
	require.NoError(t, err)

	_, err = jpeg.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestMakeThumbnailNotAnImage(t *testing.T) {
	_, err := MakeThumbnail([]byte("plain text"))
	assert.Error(t, err)
}
