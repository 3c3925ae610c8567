// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port         string
	AllowOrigins string
	// AIDepth is the full search depth in plies, root included.
	AIDepth int
	// AIDelay defers the engine's reply so clients can render the human move first.
	AIDelay             time.Duration
	MatchmakingInterval time.Duration
}

func Default() Config {
	return Config{
		Port:                "3000",
		AllowOrigins:        "http://localhost:5173",
		AIDepth:             3,
		AIDelay:             500 * time.Millisecond,
		MatchmakingInterval: time.Second,
	}
}

// Load starts from Default and applies PORT, ALLOW_ORIGINS, AI_DEPTH,
// AI_DELAY and MATCHMAKING_INTERVAL when set.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("PORT=%q: %w", v, ErrInvalidConfig)
		}
		cfg.Port = v
	}
	if v, ok := lookup("ALLOW_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.AllowOrigins = strings.TrimSpace(v)
	}
	if v, ok := lookup("AI_DEPTH"); ok && v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 1 || depth > 6 {
			return cfg, fmt.Errorf("AI_DEPTH=%q: want 1..6: %w", v, ErrInvalidConfig)
		}
		cfg.AIDepth = depth
	}
	var err error
	if cfg.AIDelay, err = duration(lookup, "AI_DELAY", cfg.AIDelay); err != nil {
		return cfg, err
	}
	if cfg.MatchmakingInterval, err = duration(lookup, "MATCHMAKING_INTERVAL", cfg.MatchmakingInterval); err != nil {
		return cfg, err
	}
	if cfg.MatchmakingInterval <= 0 {
		return cfg, fmt.Errorf("MATCHMAKING_INTERVAL must be positive: %w", ErrInvalidConfig)
	}
	return cfg, nil
}

func duration(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidConfig)
	}
	return d, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
