package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// fromEnv returns parse(value of key), or def when the variable is unset or
// parse rejects it.
func fromEnv[T any](key string, def T, parse func(string) (T, bool)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if v, ok := parse(raw); ok {
		return v
	}
	return def
}

func envOrDefault(key, def string) string {
	return fromEnv(key, def, func(s string) (string, bool) { return s, true })
}

func durationEnvOrDefault(key string, def time.Duration) time.Duration {
	return fromEnv(key, def, func(s string) (time.Duration, bool) {
		d, err := time.ParseDuration(s)
		return d, err == nil && d > 0
	})
}

// intEnvOrDefault only accepts positive integers.
func intEnvOrDefault(key string, def int) int {
	return fromEnv(key, def, func(s string) (int, bool) {
		n, err := strconv.Atoi(s)
		return n, err == nil && n > 0
	})
}

func boolEnvOrDefault(key string, def bool) bool {
	return fromEnv(key, def, func(s string) (bool, bool) {
		switch strings.ToLower(s) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
		return false, false
	})
}
