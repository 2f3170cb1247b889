package token

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// Source supplies the random words tokens are built from.
// Every math/rand/v2 source satisfies it.
type Source interface {
	Uint64() uint64
}

type cryptoSource struct{}

// CryptoSource returns a Source backed by crypto/rand.
func CryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// Generator draws tokens from a Source. It is safe for concurrent use even
// when the underlying Source is not.
type Generator struct {
	mu  sync.Mutex
	src Source
}

// NewGenerator returns a generator over src. A nil src falls back to CryptoSource.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = CryptoSource()
	}
	return &Generator{src: src}
}

// Next returns a fresh token.
func (g *Generator) Next() Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Token{g.src.Uint64(), g.src.Uint64(), g.src.Uint64(), g.src.Uint64()}
}
