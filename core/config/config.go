package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu    sync.Mutex
	cache = make(map[reflect.Type]any)

	// .env loading happens once per process, before the first parse.
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. Each configuration type is
// parsed only once per process; subsequent calls for the same type return the
// cached value so every component observes identical configuration.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// Missing .env files are normal outside local development.
		_ = godotenv.Load()
	})

	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache[t]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", t, err)
	}

	cache[t] = *cfg
	return nil
}

// MustLoad is Load that panics on failure, for application startup paths.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
