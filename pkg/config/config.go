// Package config loads server configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the server's environment-derived configuration. Tick rate is
// fixed at 60 Hz and is not configurable.
type Config struct {
	Host              string
	Port              int
	MaxPlayers        int
	LogLevel          string
	UseProceduralMap  bool
	ProceduralSeed    int64
	ProceduralWidth   int
	ProceduralHeight  int
}

// TickRate is the fixed simulation rate, in Hz.
const TickRate = 60

// FromEnv builds a Config from HOST, PORT, MAX_PLAYERS, LOG_LEVEL,
// USE_PROCEDURAL_MAP, PROCEDURAL_SEED, PROCEDURAL_WIDTH, and
// PROCEDURAL_HEIGHT, falling back to defaults for anything unset. Returns an
// error if a set variable fails to parse, rather than panicking.
func FromEnv() (Config, error) {
	cfg := Config{
		Host:             "0.0.0.0",
		Port:             8080,
		MaxPlayers:       100,
		LogLevel:         "info",
		UseProceduralMap: false,
		ProceduralSeed:   12345,
		ProceduralWidth:  100,
		ProceduralHeight: 100,
	}

	if v, ok := os.LookupEnv("HOST"); ok {
		cfg.Host = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	var err error
	if cfg.Port, err = intEnv("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.MaxPlayers, err = intEnv("MAX_PLAYERS", cfg.MaxPlayers); err != nil {
		return Config{}, err
	}
	if cfg.ProceduralWidth, err = intEnv("PROCEDURAL_WIDTH", cfg.ProceduralWidth); err != nil {
		return Config{}, err
	}
	if cfg.ProceduralHeight, err = intEnv("PROCEDURAL_HEIGHT", cfg.ProceduralHeight); err != nil {
		return Config{}, err
	}

	if v, ok := os.LookupEnv("PROCEDURAL_SEED"); ok {
		seed, parseErr := strconv.ParseInt(v, 10, 64)
		if parseErr != nil {
			return Config{}, fmt.Errorf("PROCEDURAL_SEED must be a valid int64: %w", parseErr)
		}
		cfg.ProceduralSeed = seed
	}

	if v, ok := os.LookupEnv("USE_PROCEDURAL_MAP"); ok {
		b, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return Config{}, fmt.Errorf("USE_PROCEDURAL_MAP must be a valid bool: %w", parseErr)
		}
		cfg.UseProceduralMap = b
	}

	return cfg, nil
}

// BindAddress returns the "host:port" address the server should listen on.
func (c Config) BindAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func intEnv(name string, fallback int) (int, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", name, err)
	}
	return n, nil
}
