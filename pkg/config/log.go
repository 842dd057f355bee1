package config

import (
	"fmt"
	"log/slog"
	"strings"
)

type LogConfig struct {
	Level string `koanf:"level"`
}

// ParseLogLevel maps debug, info, warn and error (any case, optional +/- offset) to a slog level.
// An empty level means info.
func ParseLogLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	return l, nil
}

func (c *LogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Log ---\n")
	b.WriteString(fmt.Sprintf("  level: %s\n", c.Level))
	return b.String()
}

func (c *LogConfig) Validate() error {
	_, err := ParseLogLevel(c.Level)
	return err
}
