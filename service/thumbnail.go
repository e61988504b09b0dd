package service

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Thumbnails fit within 200x200 with the aspect ratio preserved
const thumbnailSize = 200

// MakeThumbnail decodes image bytes and re-encodes a bounded JPEG. The
// caller treats any error as non-fatal and stores the photo without a
// thumbnail
func MakeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image, %w", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail, %w", err)
	}

	return buf.Bytes(), nil
}
