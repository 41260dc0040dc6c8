package core

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
)

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("event,fatalities")...),
			expected: "event,fatalities",
		},
		{
			name:     "file without BOM",
			input:    []byte("event,fatalities"),
			expected: "event,fatalities",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBOMSkippingReader(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "valid ASCII",
			input:    []byte("a,b\n1,2\n"),
			expected: "a,b\n1,2\n",
		},
		{
			name:     "valid multibyte",
			input:    []byte("région,Zürich"),
			expected: "région,Zürich",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he�lo",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewUTF8Sanitizer(bytes.NewReader(tt.input))
			result, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer_SplitRunes(t *testing.T) {
	// One byte per read forces every multi-byte rune across read boundaries.
	input := "Côte d’Ivoire,Ñuñoa"
	reader := NewUTF8Sanitizer(iotest.OneByteReader(bytes.NewReader([]byte(input))))

	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != input {
		t.Errorf("got %q, want %q", string(result), input)
	}
}

func TestWrapInput(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte{'x', 0xFF, '\n'}...)

	result, err := io.ReadAll(wrapInput(bytes.NewReader(input)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "x�\n" {
		t.Errorf("got %q, want %q", string(result), "x�\n")
	}
}
