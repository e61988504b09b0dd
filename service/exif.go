package service

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"
)

// ExtractEXIF pulls EXIF metadata out of image bytes. Any decode failure
// returns nil, uploads proceed without metadata
func ExtractEXIF(data []byte) map[string]any {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		zap.L().Debug("Could not extract EXIF data", zap.Error(err))
		return nil
	}

	w := &exifWalker{fields: make(map[string]any)}
	if err := x.Walk(w); err != nil {
		zap.L().Debug("EXIF walk failed", zap.Error(err))
		return nil
	}

	if len(w.fields) == 0 {
		return nil
	}

	return w.fields
}

type exifWalker struct {
	fields map[string]any
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.fields[sanitizeString(string(name))] = sanitizeTag(tag)
	return nil
}

// sanitizeTag converts a raw TIFF tag into something that survives JSON
// encoding and a text column: rationals become floats, byte blobs become
// text with NULs stripped or hex when they don't decode
func sanitizeTag(tag *tiff.Tag) any {
	n := int(tag.Count)

	switch tag.Format() {
	case tiff.RatVal:
		vals := make([]any, 0, n)
		for i := 0; i < n; i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				continue
			}
			vals = append(vals, ratToFloat(num, den))
		}
		return scalarOrSlice(vals)

	case tiff.IntVal:
		vals := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Int64(i)
			if err != nil {
				continue
			}
			vals = append(vals, v)
		}
		return scalarOrSlice(vals)

	case tiff.FloatVal:
		vals := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := tag.Float(i)
			if err != nil {
				continue
			}
			vals = append(vals, v)
		}
		return scalarOrSlice(vals)

	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return sanitizeBytes(tag.Val)
		}
		return sanitizeString(s)

	default:
		return sanitizeBytes(tag.Val)
	}
}

func scalarOrSlice(vals []any) any {
	switch len(vals) {
	case 0:
		return nil
	case 1:
		return vals[0]
	default:
		return vals
	}
}

func ratToFloat(num, den int64) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}

// sanitizeBytes strips NUL bytes and decodes as UTF-8, falling back to
// hex for binary blobs. Postgres text columns can't hold NULs
func sanitizeBytes(b []byte) string {
	cleaned := bytes.ReplaceAll(b, []byte{0}, nil)

	if utf8.Valid(cleaned) {
		return string(cleaned)
	}

	return hex.EncodeToString(b)
}

func sanitizeString(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
