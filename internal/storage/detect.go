package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yasinhessnawi1/PhotoAlbum_Backend/internal/constants"
)

var allowedImageTypes = map[string]bool{
	constants.MimeJPEG: true,
	constants.MimePNG:  true,
	constants.MimeGIF:  true,
	constants.MimeBMP:  true,
}

// DetectContentType sniffs the content type of r and rewinds it.
func DetectContentType(r io.ReadSeeker) (string, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to detect content type: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return baseType(mtype), nil
}

// DetectImageType sniffs r and reports whether it is an accepted image type.
func DetectImageType(r io.ReadSeeker) (string, bool, error) {
	contentType, err := DetectContentType(r)
	if err != nil {
		return "", false, err
	}
	return contentType, IsAllowedImage(contentType), nil
}

// IsAllowedImage reports whether contentType is one of JPEG, PNG, GIF or BMP.
func IsAllowedImage(contentType string) bool {
	return allowedImageTypes[contentType]
}

// baseType strips parameters such as "; charset=utf-8".
func baseType(m *mimetype.MIME) string {
	base, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(base)
}
