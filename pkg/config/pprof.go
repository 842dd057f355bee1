package config

import (
	"fmt"
	"net"
	"strings"
)

// PProfConfig controls the side listener serving runtime profiles.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	if c.Enabled {
		b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	}
	return b.String()
}

// Validate requires a host:port address when profiling is on.
// The listener must not bind the wildcard address.
func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return fmt.Errorf("pprof address %q is not host:port: %w", c.Addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		return fmt.Errorf("pprof address %q must name a host", c.Addr)
	}
	return nil
}
