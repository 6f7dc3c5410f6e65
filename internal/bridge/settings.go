package bridge

import (
	"time"

	"github.com/kingrea/spawnhook/internal/config"
)

// Limits the bridge applies on top of the project's bridge block.
const (
	DefaultMaxBodyBytes int64 = 1 << 20
	DefaultReadTimeout        = 15 * time.Second
	DefaultWriteTimeout       = 15 * time.Second
	DefaultIdleTimeout        = 60 * time.Second
	DefaultDrainTimeout       = 5 * time.Second
)

// Settings is the resolved bridge block plus HTTP limits. Zero limits take
// the defaults above.
type Settings struct {
	config.BridgeSettings

	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// DrainTimeout bounds how long Run waits for in-flight requests.
	DrainTimeout time.Duration
}

// SettingsFromConfig projects the project's bridge block, with environment
// overrides resolved by config, onto Settings.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	bridge, err := cfg.Bridge()
	if err != nil {
		return Settings{}, err
	}
	return Settings{BridgeSettings: bridge}.withLimits(), nil
}

func (s Settings) withLimits() Settings {
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.DrainTimeout <= 0 {
		s.DrainTimeout = DefaultDrainTimeout
	}
	return s
}
