package core

// streaming.go normalizes raw input bytes before CSV parsing.
//
// Spreadsheet exports frequently carry a UTF-8 byte order mark or stray
// Latin-1 bytes. Both are cleaned up here so the header row and cell values
// come out the same as for a clean file:
//
//   - BOMSkippingReader: drops a leading 0xEF 0xBB 0xBF
//   - UTF8Sanitizer: replaces invalid UTF-8 bytes with U+FFFD
//
// Use wrapInput to apply both in the right order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{r: bufio.NewReader(r)}
}

// Read implements io.Reader. The BOM check happens on the first call only.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err != nil && err != io.EOF {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}

// UTF8Sanitizer replaces invalid UTF-8 with the replacement character.
// Multi-byte sequences split across reads are carried over to the next call.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
	out     []byte
	err     error
}

// NewUTF8Sanitizer creates a sanitizing reader.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

func (s *UTF8Sanitizer) fill() {
	buf := make([]byte, 4096)
	n, err := s.r.Read(buf)
	data := append(s.pending, buf[:n]...)
	s.pending = nil
	s.err = err

	if err == nil {
		// Hold back a possibly incomplete rune at the end.
		if cut := incompleteTail(data); cut > 0 {
			s.pending = append([]byte(nil), data[len(data)-cut:]...)
			data = data[:len(data)-cut]
		}
	}
	s.out = sanitizeUTF8(data)
}

// incompleteTail returns how many trailing bytes start a rune that is not
// complete yet.
func incompleteTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if utf8.RuneStart(b) {
			if !utf8.FullRune(data[len(data)-i:]) {
				return i
			}
			return 0
		}
	}
	return 0
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.Write(data[:size])
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// wrapInput applies BOM stripping first, then UTF-8 sanitization.
func wrapInput(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}
