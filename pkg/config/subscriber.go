package config

import (
	"fmt"
	"strings"
	"time"
)

type SubscriberConfig struct {
	Stream        string        `koanf:"stream"`
	Subject       string        `koanf:"subject"`
	Consumer      string        `koanf:"consumer"`
	Batch         int           `koanf:"batch"`
	FetchWait     time.Duration `koanf:"fetchwait"`
	RetryInterval time.Duration `koanf:"retryinterval"`
	Workers       int           `koanf:"workers"`
}

func (c *SubscriberConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- NATS Subscriber ---\n")
	b.WriteString(fmt.Sprintf("  stream: %s\n", c.Stream))
	b.WriteString(fmt.Sprintf("  subject: %s\n", c.Subject))
	b.WriteString(fmt.Sprintf("  consumer: %s\n", c.Consumer))
	b.WriteString(fmt.Sprintf("  batch: %d\n", c.Batch))
	b.WriteString(fmt.Sprintf("  fetchWait: %s\n", c.FetchWait))
	b.WriteString(fmt.Sprintf("  retryInterval: %s\n", c.RetryInterval))
	b.WriteString(fmt.Sprintf("  workers: %d\n", c.Workers))
	return b.String()
}

func (c *SubscriberConfig) Validate() error {
	switch {
	case c.Stream == "":
		return fmt.Errorf("subscriber stream is not configured")
	case c.Subject == "":
		return fmt.Errorf("subscriber subject is not configured")
	case c.Consumer == "":
		return fmt.Errorf("subscriber consumer is not configured")
	case c.Batch <= 0:
		return fmt.Errorf("subscriber batch must be greater than zero")
	case c.FetchWait <= 0:
		return fmt.Errorf("subscriber fetch wait must be greater than zero")
	case c.RetryInterval <= 0:
		return fmt.Errorf("subscriber retry interval must be greater than zero")
	case c.Workers <= 0:
		return fmt.Errorf("subscriber workers must be greater than zero")
	}
	return nil
}
