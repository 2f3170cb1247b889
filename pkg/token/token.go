package token

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
)

// Size is the length of a token in bytes.
const Size = 32

// encodedLen is the length of the canonical Base64 form.
var encodedLen = base64.StdEncoding.EncodedLen(Size)

// strict rejects non-zero padding bits, so every token has exactly one
// accepted text form.
var strict = base64.StdEncoding.Strict()

// Token is a 256-bit opaque handle.
type Token [4]uint64

// FromWords builds a token from four words.
func FromWords(a, b, c, d uint64) Token {
	return Token{a, b, c, d}
}

// FromBytes builds a token from exactly Size bytes.
func FromBytes(b []byte) (Token, error) {
	if len(b) != Size {
		return Token{}, ErrInvalidToken
	}
	var t Token
	for i := range t {
		t[i] = binary.BigEndian.Uint64(b[i*8:])
	}
	return t, nil
}

// Parse decodes the canonical Base64 form produced by String.
func Parse(s string) (Token, error) {
	if len(s) != encodedLen {
		return Token{}, ErrInvalidToken
	}
	var raw [Size + 2]byte
	n, err := strict.Decode(raw[:], []byte(s))
	if err != nil || n != Size {
		return Token{}, ErrInvalidToken
	}
	return FromBytes(raw[:n])
}

// Bytes returns the 32-byte big-endian representation.
func (t Token) Bytes() []byte {
	b := make([]byte, Size)
	for i, w := range t {
		binary.BigEndian.PutUint64(b[i*8:], w)
	}
	return b
}

// String returns the canonical standard Base64 form.
func (t Token) String() string {
	return base64.StdEncoding.EncodeToString(t.Bytes())
}

// IsZero reports whether every word is zero.
func (t Token) IsZero() bool {
	return t == Token{}
}

// Equal compares two tokens in constant time.
func Equal(a, b Token) bool {
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}

// EqualString compares a token with a textual candidate in constant time.
// Malformed candidates never match.
func EqualString(t Token, candidate string) bool {
	other, err := Parse(candidate)
	if err != nil {
		return false
	}
	return Equal(t, other)
}
