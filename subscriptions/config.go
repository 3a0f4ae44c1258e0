package subscriptions

import "time"

// Config controls slot retention for all brokers in the hub. The variable
// names match the original deployment, so existing .env files keep working.
type Config struct {
	// RetentionDays is how many days an untouched topic slot survives
	// before a sweep removes it.
	RetentionDays int `env:"SUBSCRIPTION_MAX_CACHE_TIME" envDefault:"3"`

	// SweepInterval is how often Run invokes the sweep.
	SweepInterval time.Duration `env:"SUBSCRIPTION_SWEEP_INTERVAL" envDefault:"1h"`
}

// Retention converts the configured day count into the duration brokers
// compare against. Non-positive values fall back to the default.
func (c Config) Retention() time.Duration {
	if c.RetentionDays <= 0 {
		return 3 * 24 * time.Hour
	}
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
