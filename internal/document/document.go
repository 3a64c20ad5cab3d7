package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned when the selected file is neither
// pdf-like nor image-like.
var ErrUnsupportedType = errors.New("only PDF and image files are supported")

// Document is the currently attached study material: a named payload
// carried as base64 text, ready to ride along with generation requests.
type Document struct {
	Name     string
	MIMEType string
	Data     string // base64-encoded file contents
}

// mimeByExt maps accepted file extensions to MIME types.
var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Load reads the file at path, validates its type, and returns a Document
// with base64-encoded contents.
func Load(path string) (*Document, error) {
	mimeType, err := DetectMIME(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Document{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// DetectMIME resolves the MIME type from the file extension, rejecting
// anything that is not pdf-like or image-like.
func DetectMIME(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := mimeByExt[ext]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrUnsupportedType)
	}
	return mimeType, nil
}

// IsPDF reports whether the document payload is a PDF.
func (d *Document) IsPDF() bool {
	return strings.Contains(d.MIMEType, "pdf")
}

// IsImage reports whether the document payload is an image.
func (d *Document) IsImage() bool {
	return strings.HasPrefix(d.MIMEType, "image/")
}
