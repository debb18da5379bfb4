package env

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// RequireString panics when key is not set. Use it for settings the service cannot
// start without.
func RequireString(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		panic(fmt.Sprintf("environment variable %q is required", key))
	}

	return val
}

func String(key, def string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	return val
}

func Bool(key string, def bool) bool {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	switch strings.ToLower(valStr) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}

	return def
}

func Duration(key string, def time.Duration) time.Duration {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return def
	}

	return val
}

// Strings reads a comma separated list. Blank items are dropped.
func Strings(key string, def []string) []string {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	var out []string
	for _, s := range strings.Split(valStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	if len(out) == 0 {
		return def
	}

	return out
}
