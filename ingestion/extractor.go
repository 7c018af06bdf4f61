package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TextExtractor turns raw uploaded bytes into plain text. Implementations
// decide what they accept from the filename extension and the declared
// content type; anything else fails with ErrUnsupportedFormat.
type TextExtractor interface {
	Extract(raw []byte, filename, contentType string) (string, error)
}

// PlainTextExtractor accepts text-like documents and returns their bytes
// as UTF-8 text. Binary formats such as PDF or DOCX need a dedicated
// extractor.
type PlainTextExtractor struct{}

var textExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
}

// Extract returns the document text, rejecting non-text formats and
// byte streams that are not valid UTF-8.
func (PlainTextExtractor) Extract(raw []byte, filename, contentType string) (string, error) {
	if !textLike(filename, contentType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, formatLabel(filename, contentType))
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupportedFormat, filename)
	}
	return string(raw), nil
}

func textLike(filename, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if textExtensions[ext] {
		return true
	}

	mime := strings.ToLower(contentType)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if strings.HasPrefix(mime, "text/") {
		return true
	}

	// A bare filename with no extension and no declared type is taken
	// as plain text, matching how shell pipelines hand us documents.
	return ext == "" && mime == ""
}

func formatLabel(filename, contentType string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}
	if contentType != "" {
		return contentType
	}
	return filename
}
