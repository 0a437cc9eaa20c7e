package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration
type Config struct {
	Discord  DiscordConfig  `yaml:"discord"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Reminder ReminderConfig `yaml:"reminder"`
	Cooldown CooldownConfig `yaml:"cooldown"`
	LogLevel string         `yaml:"log_level"`
}

// DiscordConfig holds the gateway credentials and the command prefix
type DiscordConfig struct {
	Token  string `yaml:"token"`
	AppID  string `yaml:"app_id"`
	Prefix string `yaml:"prefix"`
}

// RedisConfig holds the document store connection configuration
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GameConfig holds the regeneration tables. Intervals are the seconds
// needed to recover one unit, looked up by the player's tier
type GameConfig struct {
	EnergyBase            int64            `yaml:"energy_base"`
	EnergyIntervalSec     map[string]int64 `yaml:"energy_interval_sec"`
	EnergyIntervalDefault int64            `yaml:"energy_interval_default"`

	StaminaMax             int64            `yaml:"stamina_max"`
	StaminaIntervalSec     map[string]int64 `yaml:"stamina_interval_sec"`
	StaminaIntervalDefault int64            `yaml:"stamina_interval_default"`

	WorkEnergyCost int64            `yaml:"work_energy_cost"`
	WorkWage       map[string]int64 `yaml:"work_wage"`
	WorkWageBase   int64            `yaml:"work_wage_base"`
}

// ReminderConfig bounds how often a refill reminder rechecks
type ReminderConfig struct {
	MinWait time.Duration `yaml:"min_wait"`
	MaxWait time.Duration `yaml:"max_wait"`
}

// CooldownConfig limits command bursts per user
type CooldownConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// Load reads configuration from a YAML file, expanding environment
// variables so secrets can stay out of the file itself
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// EnergyInterval returns the energy regeneration interval for a tier
func (g *GameConfig) EnergyInterval(tier string) time.Duration {
	if sec, ok := g.EnergyIntervalSec[tier]; ok && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return time.Duration(g.EnergyIntervalDefault) * time.Second
}

// StaminaInterval returns the stamina regeneration interval for a tier
func (g *GameConfig) StaminaInterval(tier string) time.Duration {
	if sec, ok := g.StaminaIntervalSec[tier]; ok && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return time.Duration(g.StaminaIntervalDefault) * time.Second
}

// Wage returns the coins paid for one shift of company work
func (g *GameConfig) Wage(tier string) int64 {
	if wage, ok := g.WorkWage[tier]; ok && wage > 0 {
		return wage
	}
	return g.WorkWageBase
}

func (c *Config) applyDefaults() {
	if c.Discord.Prefix == "" {
		c.Discord.Prefix = "toddy"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}

	if c.Game.EnergyBase == 0 {
		c.Game.EnergyBase = 100
	}
	if c.Game.EnergyIntervalDefault == 0 {
		c.Game.EnergyIntervalDefault = 60
	}
	if c.Game.StaminaMax == 0 {
		c.Game.StaminaMax = 1000
	}
	if c.Game.StaminaIntervalDefault == 0 {
		c.Game.StaminaIntervalDefault = 30
	}
	if c.Game.WorkEnergyCost == 0 {
		c.Game.WorkEnergyCost = 10
	}
	if c.Game.WorkWageBase == 0 {
		c.Game.WorkWageBase = 120
	}

	if c.Reminder.MinWait == 0 {
		c.Reminder.MinWait = 15 * time.Second
	}
	if c.Reminder.MaxWait == 0 {
		c.Reminder.MaxWait = 30 * time.Minute
	}

	if c.Cooldown.Requests == 0 {
		c.Cooldown.Requests = 5
	}
	if c.Cooldown.Window == 0 {
		c.Cooldown.Window = 10 * time.Second
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
