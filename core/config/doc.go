// Package config provides type-safe environment variable loading with
// per-type caching. Configuration structs declare `env` tags parsed by
// caarlos0/env, and a .env file is loaded automatically on first use.
//
//	type ServerConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
package config
