package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNameTooLong = errors.New("file name is too long")
)

const maxFileNameSize = 255

// PhotoValidator checks the multipart header before any bytes are read.
// Anything that decodes is accepted later; files that don't decode as
// images are still stored, just without EXIF or a thumbnail
func PhotoValidator(fh *multipart.FileHeader, maxSize int64) (int, error) {
	if fh == nil {
		return http.StatusBadRequest, ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, ErrFileNameTooLong
	}

	if fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, ErrFileTooLarge
	}

	return 0, nil
}
