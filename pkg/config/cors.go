package config

import (
	"fmt"
	"strings"
)

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// String returns a string representation of the CORS configuration.
func (c *CORSConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- CORS ---\n")
	b.WriteString(fmt.Sprintf("  origins: %s\n", strings.Join(c.Origins, ", ")))
	return b.String()
}

func (c *CORSConfig) Validate() error {
	for _, origin := range c.Origins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS origin cannot be empty")
		}
	}
	return nil
}
