// internal/workers/report/render-plan/config.go
package renderplan

import "time"

type Config struct {
	Timeout time.Duration
	// MaxBytes rejects rendered plans larger than this; 0 disables the check.
	MaxBytes int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		MaxBytes: 5 << 20,
	}
}
