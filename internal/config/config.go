package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Network     NetworkConfig     `toml:"network"`
	Items       ItemsConfig       `toml:"items"`
	Database    DatabaseConfig    `toml:"database"`
	Persistence PersistenceConfig `toml:"persistence"`
	Obs         ObsConfig         `toml:"obs"`
	Logging     LoggingConfig     `toml:"logging"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindAddress       string        `toml:"bind_address"`
	TickRate          time.Duration `toml:"tick_rate"`
	InQueueSize       int           `toml:"in_queue_size"`
	OutQueueSize      int           `toml:"out_queue_size"`
	MaxPacketsPerTick int           `toml:"max_packets_per_tick"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
}

// ItemsConfig tunes the ground-item economy. Distances are in world
// units (one block cell = 1.0).
type ItemsConfig struct {
	CatalogPath       string        `toml:"catalog_path"`       // YAML item catalog
	MaxStack          int32         `toml:"max_stack"`          // stack cap per ground item
	MergeRadius       float64       `toml:"merge_radius"`       // same-kind stacks inside this combine
	PickupRadius      float64       `toml:"pickup_radius"`      // max claimant-to-item distance
	PositionTolerance float64       `toml:"position_tolerance"` // max accepted client-reported item drift
	PickupDelay       time.Duration `toml:"pickup_delay"`       // post-spawn grace before pickup
	PickupCooldown    time.Duration `toml:"pickup_cooldown"`    // per claimant+item retry throttle
	Lifetime          time.Duration `toml:"lifetime"`           // ground item despawn age
	MaintenanceTicks  int           `toml:"maintenance_ticks"`  // sweep every N ticks
	DropDistance      float64       `toml:"drop_distance"`      // spawn offset in front of dropper
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the WAL audit trail
	MaxConns        int32         `toml:"max_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type PersistenceConfig struct {
	WALFlushTicks int `toml:"wal_flush_ticks"` // flush audit batch every N ticks
}

type ObsConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"` // /metrics, /health, /ws
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type RateLimitConfig struct {
	Enabled          bool `toml:"enabled"`
	PacketsPerSecond int  `toml:"packets_per_second"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Defaults returns the baseline configuration; Load overlays the TOML
// file on top of it.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "skybase",
			ID:   1,
		},
		Network: NetworkConfig{
			BindAddress:       "0.0.0.0:7420",
			TickRate:          200 * time.Millisecond,
			InQueueSize:       128,
			OutQueueSize:      2048,
			MaxPacketsPerTick: 32,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		Items: ItemsConfig{
			CatalogPath:       "data/items.yaml",
			MaxStack:          64,
			MergeRadius:       1.5,
			PickupRadius:      15.0,
			PositionTolerance: 100.0,
			PickupDelay:       500 * time.Millisecond,
			PickupCooldown:    250 * time.Millisecond,
			Lifetime:          5 * time.Minute,
			MaintenanceTicks:  5, // 1s at 200ms/tick
			DropDistance:      1.5,
		},
		Database: DatabaseConfig{
			DSN:             "", // WAL disabled unless configured
			MaxConns:        10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Persistence: PersistenceConfig{
			WALFlushTicks: 25, // 5s at 200ms/tick
		},
		Obs: ObsConfig{
			Enabled:     true,
			BindAddress: "127.0.0.1:7421",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		RateLimit: RateLimitConfig{
			Enabled:          true,
			PacketsPerSecond: 60,
		},
	}
}
