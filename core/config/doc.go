// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once and
// cached for subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/cindy-puzzles/backend/core/config"
//
//	type SubscriptionConfig struct {
//		RetentionDays int           `env:"SUBSCRIPTION_MAX_CACHE_TIME" envDefault:"3"`
//		SweepInterval time.Duration `env:"SUBSCRIPTION_SWEEP_INTERVAL" envDefault:"1h"`
//	}
//
//	func main() {
//		var cfg SubscriptionConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 SubscriptionConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 SubscriptionConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently.
package config
