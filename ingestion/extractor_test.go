package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextExtract(t *testing.T) {
	extractor := PlainTextExtractor{}

	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"TxtExtension", "competitors.txt", ""},
		{"MarkdownExtension", "landscape.md", ""},
		{"LongMarkdownExtension", "notes.markdown", ""},
		{"UppercaseExtension", "REPORT.TXT", ""},
		{"ContentTypeOnly", "data", "text/plain"},
		{"ContentTypeWithCharset", "data", "text/plain; charset=utf-8"},
		{"MarkdownContentType", "body", "text/markdown"},
		{"BareFilename", "README", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := extractor.Extract([]byte("Acme Corp dominates the CRM market."), tt.filename, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, "Acme Corp dominates the CRM market.", text)
		})
	}
}

func TestPlainTextExtractRejectsBinaryFormats(t *testing.T) {
	extractor := PlainTextExtractor{}

	tests := []struct {
		name        string
		filename    string
		contentType string
		wantLabel   string
	}{
		{"PDF", "report.pdf", "", ".pdf"},
		{"Word", "analysis.docx", "", ".docx"},
		{"Archive", "archive.zip", "application/zip", ".zip"},
		{"ImageContentType", "photo", "image/png", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract([]byte("irrelevant"), tt.filename, tt.contentType)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.Contains(t, err.Error(), tt.wantLabel)
		})
	}
}

func TestPlainTextExtractRejectsInvalidUTF8(t *testing.T) {
	extractor := PlainTextExtractor{}

	_, err := extractor.Extract([]byte{0xff, 0xfe, 0xfd}, "notes.txt", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "UTF-8")
}
