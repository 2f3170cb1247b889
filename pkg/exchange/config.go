package exchange

import "fmt"

// Config holds engine limits.
type Config struct {
	InitialBufferSize int   `env:"HTTP_INITIAL_BUFFER_SIZE" envDefault:"4096"` // InitialBufferSize is the starting capacity of the read buffer.
	MaxBufferSize     int   `env:"HTTP_MAX_BUFFER_SIZE" envDefault:"65536"`    // MaxBufferSize caps the request line and header block.
	MaxBodySize       int64 `env:"HTTP_MAX_BODY_SIZE" envDefault:"10485760"`   // MaxBodySize caps the declared Content-Length.
}

// DefaultConfig returns the default engine limits.
func DefaultConfig() Config {
	return Config{
		InitialBufferSize: 4096,
		MaxBufferSize:     64 << 10,
		MaxBodySize:       10 << 20,
	}
}

// Validate checks that the limits are usable.
func (c Config) Validate() error {
	if c.InitialBufferSize <= 0 {
		return fmt.Errorf("exchange: initial buffer size must be > 0, got %d", c.InitialBufferSize)
	}
	if c.MaxBufferSize < c.InitialBufferSize {
		return fmt.Errorf("exchange: max buffer size %d is below initial size %d", c.MaxBufferSize, c.InitialBufferSize)
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("exchange: max body size must be >= 0, got %d", c.MaxBodySize)
	}
	return nil
}
