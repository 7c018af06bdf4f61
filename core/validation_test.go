package core

import (
	"errors"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "Acme Corp pricing overview",
			want:  "Acme Corp pricing overview",
		},
		{
			name:  "collapses whitespace runs",
			input: "Acme\t\tCorp\n\npricing   overview",
			want:  "Acme Corp pricing overview",
		},
		{
			name:  "strips nul bytes",
			input: "Acme\x00 Corp",
			want:  "Acme Corp",
		},
		{
			name:  "strips control characters",
			input: "Acme\x01\x02 Corp\x7f",
			want:  "Acme Corp",
		},
		{
			name:  "trims leading and trailing whitespace",
			input: "   Acme Corp  \n",
			want:  "Acme Corp",
		},
		{
			name:  "whitespace only normalizes to empty",
			input: " \t\n ",
			want:  "",
		},
		{
			name:  "control characters only normalizes to empty",
			input: "\x00\x01\x02",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				Text:           "Acme launched a cheaper tier in March.",
				SourceDocument: "acme.txt",
				DocType:        DocTypeCompetitor,
				SequenceIndex:  0,
			},
			wantErr: nil,
		},
		{
			name: "valid unknown chunk",
			chunk: &Chunk{
				Text:          "untyped upload",
				DocType:       DocTypeUnknown,
				SequenceIndex: 4,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				Text:    "",
				DocType: DocTypeBusiness,
			},
			wantErr: ErrEmptyChunkText,
		},
		{
			name: "invalid doc type",
			chunk: &Chunk{
				Text:    "hello",
				DocType: DocType("press-release"),
			},
			wantErr: ErrInvalidDocType,
		},
		{
			name: "negative sequence index",
			chunk: &Chunk{
				Text:          "hello",
				DocType:       DocTypeBusiness,
				SequenceIndex: -1,
			},
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateChunk() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunkConfig(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		wantErr   error
	}{
		{
			name:      "default profile",
			chunkSize: 1000,
			overlap:   200,
			wantErr:   nil,
		},
		{
			name:      "zero overlap",
			chunkSize: 100,
			overlap:   0,
			wantErr:   nil,
		},
		{
			name:      "zero chunk size",
			chunkSize: 0,
			overlap:   0,
			wantErr:   ErrInvalidChunkConfig,
		},
		{
			name:      "negative overlap",
			chunkSize: 100,
			overlap:   -1,
			wantErr:   ErrInvalidChunkConfig,
		},
		{
			name:      "overlap equals chunk size",
			chunkSize: 100,
			overlap:   100,
			wantErr:   ErrInvalidChunkConfig,
		},
		{
			name:      "overlap exceeds chunk size",
			chunkSize: 100,
			overlap:   150,
			wantErr:   ErrInvalidChunkConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunkConfig(tt.chunkSize, tt.overlap)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunkConfig() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunkConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	if err := ValidateQuery("who are our competitors?"); err != nil {
		t.Errorf("ValidateQuery() error = %v, want nil", err)
	}

	for _, query := range []string{"", "   ", "\x00\x01", "\n\t"} {
		err := ValidateQuery(query)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("ValidateQuery(%q) error = %v, want %v", query, err, ErrEmptyQuery)
		}
	}
}
