package service

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEXIFNoMetadata(t *testing.T) {
	// A plain encoded JPEG carries no EXIF block at all
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))

	assert.Nil(t, ExtractEXIF(buf.Bytes()))
}

func TestExtractEXIFGarbage(t *testing.T) {
	assert.Nil(t, ExtractEXIF([]byte("definitely not an image")))
	assert.Nil(t, ExtractEXIF(nil))
}

func TestRatToFloat(t *testing.T) {
	assert.Equal(t, 2.5, ratToFloat(5, 2))
	assert.Equal(t, 0.0, ratToFloat(7, 0), "zero denominator must not divide")
}

func TestSanitizeBytes(t *testing.T) {
	assert.Equal(t, "FUJIFILM", sanitizeBytes([]byte("FUJI\x00FILM\x00")))

	// Invalid UTF-8 falls back to hex of the original bytes
	assert.Equal(t, "fffe01", sanitizeBytes([]byte{0xff, 0xfe, 0x01}))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Canon EOS", sanitizeString("Canon\x00 EOS\x00"))
}

func TestScalarOrSlice(t *testing.T) {
	assert.Nil(t, scalarOrSlice(nil))
	assert.Equal(t, int64(42), scalarOrSlice([]any{int64(42)}))
	assert.Equal(t, []any{1.0, 2.0}, scalarOrSlice([]any{1.0, 2.0}))
}
