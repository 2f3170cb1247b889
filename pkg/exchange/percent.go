package exchange

import (
	"errors"
	"io"
)

var errInvalidEscape = errors.New("exchange: invalid percent-encoding")

// byteSource yields the next input byte. The parser feeds it from the
// connection buffer, Unescape from a string.
type byteSource func() (byte, error)

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// readHexPair reads the two hex digits following a '%'.
func readHexPair(next byteSource) (byte, error) {
	c, err := next()
	if err != nil {
		return 0, err
	}
	hi, ok := unhex(c)
	if !ok {
		return 0, errInvalidEscape
	}
	if c, err = next(); err != nil {
		return 0, err
	}
	lo, ok := unhex(c)
	if !ok {
		return 0, errInvalidEscape
	}
	return hi<<4 | lo, nil
}

// decodeEscape is called after a '%' has been consumed. It decodes one
// complete code point, pulling continuation triplets from next, validates it
// as UTF-8 and appends its bytes to dst.
//
// Overlong forms, surrogates (U+D800..U+DFFF), lead bytes above U+10FFFF and
// missing or malformed continuation bytes yield errInvalidEscape. Errors from
// next are returned unchanged.
func decodeEscape(next byteSource, dst []byte) ([]byte, error) {
	lead, err := readHexPair(next)
	if err != nil {
		return dst, err
	}
	if lead < 0x80 {
		return append(dst, lead), nil
	}

	// Second-byte bounds follow the well-formed UTF-8 table (Unicode 3.9).
	var n int
	lo, hi := byte(0x80), byte(0xBF)
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		n = 1
	case lead == 0xE0:
		n, lo = 2, 0xA0
	case lead == 0xED:
		n, hi = 2, 0x9F
	case lead >= 0xE1 && lead <= 0xEF:
		n = 2
	case lead == 0xF0:
		n, lo = 3, 0x90
	case lead >= 0xF1 && lead <= 0xF3:
		n = 3
	case lead == 0xF4:
		n, hi = 3, 0x8F
	default:
		return dst, errInvalidEscape
	}

	var seq [4]byte
	seq[0] = lead
	for i := 1; i <= n; i++ {
		c, err := next()
		if err != nil {
			return dst, err
		}
		if c != '%' {
			return dst, errInvalidEscape
		}
		b, err := readHexPair(next)
		if err != nil {
			return dst, err
		}
		if b < lo || b > hi {
			return dst, errInvalidEscape
		}
		lo, hi = 0x80, 0xBF
		seq[i] = b
	}
	return append(dst, seq[:n+1]...), nil
}

// Unescape percent-decodes s with the same rules the request parser applies
// to paths. Raw bytes are copied verbatim.
func Unescape(s string) (string, error) {
	return unescape(s, false)
}

// UnescapeQuery decodes a query or form component: like Unescape but '+'
// becomes a space.
func UnescapeQuery(s string) (string, error) {
	return unescape(s, true)
}

func unescape(s string, plusAsSpace bool) (string, error) {
	i := 0
	next := func() (byte, error) {
		if i >= len(s) {
			return 0, io.ErrUnexpectedEOF
		}
		c := s[i]
		i++
		return c, nil
	}

	out := make([]byte, 0, len(s))
	for i < len(s) {
		c := s[i]
		i++
		switch {
		case c == '%':
			var err error
			if out, err = decodeEscape(next, out); err != nil {
				return "", ErrInvalidEncoding
			}
		case c == '+' && plusAsSpace:
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}
	return string(out), nil
}
