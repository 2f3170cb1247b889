package logger

import (
	"fmt"
	"log/slog"
)

// Config holds logger configuration.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"wirehttpd"`

	// Level overrides the environment's default level when set.
	Level string `env:"LOG_LEVEL"`

	// Format overrides the environment's default format when set.
	Format string `env:"LOG_FORMAT"`
}

// NewFromConfig creates a logger from cfg. Explicit options are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	configOpts := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	if cfg.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
		}
		configOpts = append(configOpts, WithLevel(lvl))
	}

	switch f := Format(cfg.Format); f {
	case "":
	case FormatJSON, FormatText:
		configOpts = append(configOpts, WithFormat(f))
	default:
		return nil, fmt.Errorf("logger: invalid format %q", cfg.Format)
	}

	return New(append(configOpts, opts...)...), nil
}
