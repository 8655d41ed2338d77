// Package config loads the service configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the runtime configuration of the analysis service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the SQLite database file. Empty disables persistence.
	DBPath string

	// RulesPath is the rule table asset. Empty triggers the default
	// lookup path search.
	RulesPath string

	// DarkCircle toggles the dark circle analysis stage.
	DarkCircle bool
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Addr:       getEnv("MEDIT_ADDR", ":8080"),
		DBPath:     os.Getenv("MEDIT_DB_PATH"),
		RulesPath:  os.Getenv("MEDIT_RULES_PATH"),
		DarkCircle: getBool("MEDIT_DARK_CIRCLE", true),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
