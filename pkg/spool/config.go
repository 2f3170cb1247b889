package spool

// Config holds spool settings.
type Config struct {
	Dir    string `env:"SPOOL_DIR" envDefault:"/tmp/wirehttp"` // Dir is the spool directory.
	Prefix string `env:"SPOOL_PREFIX" envDefault:"wirehttp-"`  // Prefix starts every spool file name.
}

// NewFromConfig creates a Dir from cfg. An empty prefix keeps the default.
func NewFromConfig(cfg Config, opts ...Option) (*Dir, error) {
	configOpts := make([]Option, 0, 1+len(opts))
	if cfg.Prefix != "" {
		configOpts = append(configOpts, WithPrefix(cfg.Prefix))
	}
	configOpts = append(configOpts, opts...)
	return NewDir(cfg.Dir, configOpts...)
}
