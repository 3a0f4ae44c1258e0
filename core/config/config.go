package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// Load populates cfg from environment variables using `env` struct tags.
// A .env file in the working directory is loaded once per process before the
// first parse; missing files are ignored. Each configuration type is parsed
// only once and cached, so repeated calls with the same type are cheap and
// return identical values.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
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
		return fmt.Errorf("failed to load %s from environment: %w", t, err)
	}

	cache[t] = *cfg
	return nil
}

// MustLoad is like Load but panics on failure. Useful during startup where a
// missing required variable should abort the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
