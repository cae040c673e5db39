package config

import (
	"os"
	"strings"
)

// ApplyEnv overrides file settings from LEDGER_* environment variables.
func ApplyEnv(c *Config) {
	if v := getEnv("LEDGER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getEnv("LEDGER_SOURCE"); v != "" {
		c.Source.Location = v
	}
	if v := getEnv("LEDGER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	switch strings.ToLower(getEnv("LEDGER_DEV_STATIC")) {
	case "1", "true", "yes":
		c.Server.DevStatic = true
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
