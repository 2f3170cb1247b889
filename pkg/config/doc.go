// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - Load parses the environment into any struct using env tags and caches
//     the result per type, so every package asking for the same
//     configuration type sees the same values.
//   - LoadEnv reads additional .env files; the default .env in the working
//     directory is read automatically on first Load.
//   - MustLoad and MustLoadEnv panic on failure, for process start-up.
//   - Reset clears the cache, mainly for tests.
//
// Packages in this module expose Config structs with env tags (for example
// exchange.Config, session.Config, server.Config) that are meant to be
// loaded here and passed to their NewFromConfig constructors.
//
// # Usage
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv := server.NewFromConfig(cfg, engine)
package config
