package sgp4

import (
	"bytes"
	"strconv"
)

// fieldScanner converts width limited fields out of a repaired TLE line with
// the semantics of C's sscanf: every directive first skips blanks, then
// consumes at most width bytes that fit its conversion. The first failed
// directive stops the scan; Count reports how many fields were converted.
type fieldScanner struct {
	buf    []byte
	pos    int
	n      int
	failed bool
}

// newFieldScanner scans b up to its first NUL byte.
func newFieldScanner(b []byte) *fieldScanner {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return &fieldScanner{buf: b}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Count returns the number of fields converted so far.
func (s *fieldScanner) Count() int { return s.n }

// field skips blanks and returns the window of at most width bytes that the
// next directive may look at, or nil when the scan is over.
func (s *fieldScanner) field(width int) []byte {
	if s.failed {
		return nil
	}
	for s.pos < len(s.buf) && isSpace(s.buf[s.pos]) {
		s.pos++
	}
	end := s.pos + width
	if end > len(s.buf) {
		end = len(s.buf)
	}
	if s.pos == end {
		s.failed = true
		return nil
	}
	return s.buf[s.pos:end]
}

func (s *fieldScanner) accept(k int) string {
	v := string(s.buf[s.pos : s.pos+k])
	s.pos += k
	s.n++
	return v
}

// Int is %<width>d.
func (s *fieldScanner) Int(width int) int {
	w := s.field(width)
	if w == nil {
		return 0
	}
	k := 0
	if w[0] == '+' || w[0] == '-' {
		k++
	}
	digits := 0
	for k < len(w) && isDigit(w[k]) {
		k++
		digits++
	}
	if digits == 0 {
		s.failed = true
		return 0
	}
	v, err := strconv.Atoi(s.accept(k))
	if err != nil {
		s.n--
		s.failed = true
		return 0
	}
	return v
}

// Float is %<width>lf.
func (s *fieldScanner) Float(width int) float64 {
	w := s.field(width)
	if w == nil {
		return 0
	}
	k := 0
	if w[0] == '+' || w[0] == '-' {
		k++
	}
	digits := 0
	for k < len(w) && isDigit(w[k]) {
		k++
		digits++
	}
	if k < len(w) && w[k] == '.' {
		k++
		for k < len(w) && isDigit(w[k]) {
			k++
			digits++
		}
	}
	if digits == 0 {
		s.failed = true
		return 0
	}
	if k < len(w) && (w[k] == 'e' || w[k] == 'E') {
		e := k + 1
		if e < len(w) && (w[e] == '+' || w[e] == '-') {
			e++
		}
		if e < len(w) && isDigit(w[e]) {
			for e < len(w) && isDigit(w[e]) {
				e++
			}
			k = e
		}
	}
	v, err := strconv.ParseFloat(s.accept(k), 64)
	if err != nil {
		s.n--
		s.failed = true
		return 0
	}
	return v
}

// String is %<width>s.
func (s *fieldScanner) String(width int) string {
	w := s.field(width)
	if w == nil {
		return ""
	}
	k := 0
	for k < len(w) && !isSpace(w[k]) {
		k++
	}
	return s.accept(k)
}

// Char is %1c.
func (s *fieldScanner) Char() byte {
	w := s.field(1)
	if w == nil {
		return 0
	}
	c := w[0]
	s.accept(1)
	return c
}
