// Package token provides a fixed 256-bit opaque handle used for session
// identifiers and CSRF tokens.
//
// A Token is four 64-bit words drawn from a Source. Its canonical text form
// is standard Base64 of the 32 big-endian bytes, which is what travels in
// cookies and headers.
//
// # Usage
//
//	import "github.com/dmitrymomot/wirehttp/pkg/token"
//
//	gen := token.NewGenerator(token.CryptoSource())
//	tok := gen.Next()
//
//	cookieValue := tok.String()
//
//	parsed, err := token.Parse(cookieValue)
//	if err != nil {
//	    // malformed or wrong length
//	}
//	if token.Equal(parsed, tok) {
//	    // constant-time match
//	}
//
// # Random sources
//
// Source is satisfied by every math/rand/v2 source, so tests can plug in a
// seeded rand.NewPCG for reproducible tokens. CryptoSource is the production
// default.
//
// Parse and FromBytes return ErrInvalidToken for anything that is not
// exactly 32 bytes of standard Base64.
package token
