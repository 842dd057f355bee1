package config

import (
	"fmt"
	"strings"

	"github.com/flowersales/flowersales/pkg/config"
	"github.com/flowersales/flowersales/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	NATS       config.NATSConfig       `koanf:"nats"`
	Subscriber config.SubscriberConfig `koanf:"subscriber"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.NATS.String())
	b.WriteString(c.Subscriber.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// The notifier has nothing to do without a broker, so NATS must be enabled.
func (c *Config) Validate() error {
	if !c.NATS.Enabled {
		return fmt.Errorf("nats must be enabled for the notification service")
	}
	validators := []configloader.Validator{
		&c.NATS,
		&c.Subscriber,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
