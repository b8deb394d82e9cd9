package table

// reader.go wraps uploaded CSV streams so the parser only ever sees clean
// UTF-8. Windows exports commonly carry a UTF-8 BOM, and spreadsheet tools
// occasionally emit invalid byte sequences; both break encoding/csv field
// handling if passed through untouched.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// sanitizedReader skips a leading UTF-8 BOM and replaces invalid UTF-8
// bytes with '?' on the fly. Memory use is bounded by the bufio buffer
// regardless of input size.
type sanitizedReader struct {
	br         *bufio.Reader
	bomChecked bool

	// pending holds encoded bytes of a rune that did not fit in the
	// caller's buffer on the previous call.
	pending []byte
	buf     [utf8.UTFMax]byte
}

// NewSanitizedReader wraps r for CSV parsing: BOM stripped, invalid UTF-8
// replaced. The returned reader is not safe for concurrent use.
func NewSanitizedReader(r io.Reader) io.Reader {
	return &sanitizedReader{br: bufio.NewReader(r)}
}

func (s *sanitizedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !s.bomChecked {
		s.bomChecked = true
		if head, err := s.br.Peek(3); err == nil &&
			head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
			s.br.Discard(3)
		}
	}

	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			c := copy(p[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		r, size, err := s.br.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}

		// ReadRune reports invalid encodings as (RuneError, 1).
		// Replace with '?' to avoid expanding the stream.
		if r == utf8.RuneError && size == 1 {
			p[n] = '?'
			n++
			continue
		}

		m := utf8.EncodeRune(s.buf[:], r)
		if m <= len(p)-n {
			copy(p[n:], s.buf[:m])
			n += m
		} else {
			s.pending = append(s.pending[:0], s.buf[:m]...)
		}
	}
	return n, nil
}
