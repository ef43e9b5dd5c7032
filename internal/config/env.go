package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyEnv reads the runtime switches through getenv (os.Getenv in the
// binaries): DEBUG, SPEED_MULTIPLIER, DIFFICULTY, REAL_TIME, HEADLESS and
// RANDOM_SEED. Unset variables leave the config untouched.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("DEBUG"); v != "" {
		c.Runtime.Debug = truthy(v)
	}
	if v := getenv("REAL_TIME"); v != "" {
		c.Runtime.RealTime = truthy(v)
	}
	if v := getenv("HEADLESS"); v != "" {
		c.Runtime.Headless = truthy(v)
	}
	if v := getenv("SPEED_MULTIPLIER"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m <= 0 {
			return fmt.Errorf("SPEED_MULTIPLIER=%q: %w", v, ErrInvalid)
		}
		c.Rules.SpeedMultiplier = m
	}
	if v := getenv("DIFFICULTY"); v != "" {
		d := strings.ToLower(strings.TrimSpace(v))
		if d != "easy" && d != "hard" {
			return fmt.Errorf("DIFFICULTY=%q: %w", v, ErrInvalid)
		}
		c.Rules.Difficulty = d
	}
	if v := getenv("RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("RANDOM_SEED=%q: %w", v, ErrInvalid)
		}
		c.Runtime.Seed = seed
		c.Runtime.HasSeed = true
	}
	return nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
