// Package config loads the referee's YAML configuration, layered the
// way the rest of the project structures config: one struct per
// concern, and a Default that works with no file at all.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the referee's full configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Game   GameConfig   `yaml:"game"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig controls the spectator HTTP/WebSocket server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GameConfig controls the turn loop and world generation.
type GameConfig struct {
	TickInterval             time.Duration `yaml:"tick_interval"`
	AgentTimeout             time.Duration `yaml:"agent_timeout"`
	NumTowns                 int           `yaml:"num_towns"`
	NumMountains             int           `yaml:"num_mountains"`
	CapitalStartingUnits     int           `yaml:"capital_starting_units"`
	NeutralTownStartingUnits int           `yaml:"neutral_town_starting_units"`
	Seed                     int64         `yaml:"seed"`
}

// StoreConfig holds the optional persistence backends; an empty field
// means that backend is inert.
type StoreConfig struct {
	PostgresURL string `yaml:"postgres_url"`
	RedisURL    string `yaml:"redis_url"`
}

// Load reads and parses a YAML config file at path, starting from
// Default so a partial file only overrides what it sets.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration: no persistence, a
// 50ms tick, and the reference world-generation constants.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Game: GameConfig{
			TickInterval:             50 * time.Millisecond,
			AgentTimeout:             30 * time.Millisecond,
			NumTowns:                 10,
			NumMountains:             100,
			CapitalStartingUnits:     5,
			NeutralTownStartingUnits: 50,
			Seed:                     0,
		},
	}
}

// Note: HOST_ADDRESS, read by the reference agent binaries to bind
// their own listeners, has no bearing on the referee and is
// deliberately not consulted here.
