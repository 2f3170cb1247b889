package session

// Config holds session store configuration.
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// CSRFHeader is the request header carrying the CSRF token
	CSRFHeader string `env:"SESSION_CSRF_HEADER" envDefault:"X-CSRF-Token"`

	// MaxSessions bounds the session table with LRU eviction (0 for unbounded)
	MaxSessions int `env:"SESSION_MAX_SESSIONS" envDefault:"0"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName: DefaultCookieName,
		CSRFHeader: DefaultCSRFHeader,
	}
}

// NewFromConfig creates a Store from cfg. Explicit options are applied after
// the configuration and win over it.
func NewFromConfig(cfg Config, opts ...Option) (*Store, error) {
	if cfg.MaxSessions < 0 {
		return nil, ErrInvalidConfig
	}
	configOpts := []Option{
		WithCookieName(cfg.CookieName),
		WithCSRFHeader(cfg.CSRFHeader),
	}
	if cfg.MaxSessions > 0 {
		configOpts = append(configOpts, WithTable(NewLRUTable(cfg.MaxSessions)))
	}
	return New(append(configOpts, opts...)...)
}
