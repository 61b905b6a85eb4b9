package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vshulcz/focuswatch/internal/misc"
)

// FromEnvOrFlag returns the environment value when present, otherwise falls back to a CLI flag then default.
func FromEnvOrFlag(envKey, flagVal, def string) string {
	if v := strings.TrimSpace(flagVal); v != "" {
		def = v
	}
	return misc.Getenv(envKey, def)
}

// FromEnvOrFlagBool merges boolean values from ENV and flags (defaulting to def).
func FromEnvOrFlagBool(envKey string, flagVal, def bool) bool {
	if ev := strings.TrimSpace(os.Getenv(envKey)); ev != "" {
		return misc.GetBool(envKey, def)
	}
	if flagVal {
		return true
	}
	return def
}

// FromEnvOrFlagInt resolves an integer; a set but unparsable env value is reported as-is through ok=false.
func FromEnvOrFlagInt(envKey string, flagVal, flagSentinel, def int) (n int, ok bool) {
	if ev := strings.TrimSpace(os.Getenv(envKey)); ev != "" {
		v, err := strconv.Atoi(ev)
		if err != nil {
			return def, false
		}
		return v, true
	}
	if flagVal != flagSentinel {
		return flagVal, true
	}
	return def, true
}

// FromEnvOrFlagDuration reads a duration (Go syntax or bare seconds) from ENV, then the flag, then def.
// A zero flag value means "not set".
func FromEnvOrFlagDuration(envKey string, flagVal, def time.Duration) time.Duration {
	if ev := strings.TrimSpace(os.Getenv(envKey)); ev != "" {
		return misc.GetDuration(envKey, def)
	}
	if flagVal != 0 {
		return flagVal
	}
	return def
}

// FromEnvOrFlagList reads a comma separated list from ENV, then the flag, then def.
func FromEnvOrFlagList(envKey, flagVal string, def []string) []string {
	if ev := misc.GetList(envKey, nil); len(ev) > 0 {
		return ev
	}
	if fv := misc.SplitList(flagVal); len(fv) > 0 {
		return fv
	}
	return append([]string(nil), def...)
}
