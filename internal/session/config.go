package session

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete game configuration.
type Config struct {
	Game   GameSettings `hcl:"game,block"`
	Blinds []BlindLevel `hcl:"blind_level,block"`
}

// GameSettings contains table-level settings.
type GameSettings struct {
	StartingChips  int    `hcl:"starting_chips,optional"`
	ThinkDelayMs   int    `hcl:"think_delay_ms,optional"`
	EquityTrials   int    `hcl:"equity_trials,optional"`
	CharactersFile string `hcl:"characters_file,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	LogFile        string `hcl:"log_file,optional"`
}

// BlindLevel is one step of the escalating blind schedule. Duration is
// how long the level lasts before the next one takes over.
type BlindLevel struct {
	SmallBlind int `hcl:"small_blind"`
	BigBlind   int `hcl:"big_blind"`
	DurationS  int `hcl:"duration_s,optional"`
}

// Duration returns the level's lifetime.
func (b BlindLevel) Duration() time.Duration {
	return time.Duration(b.DurationS) * time.Second
}

func (b BlindLevel) String() string {
	return fmt.Sprintf("%d/%d", b.SmallBlind, b.BigBlind)
}

// DefaultConfig returns the default game configuration.
func DefaultConfig() *Config {
	return &Config{
		Game: GameSettings{
			StartingChips: 2000,
			ThinkDelayMs:  450,
			EquityTrials:  2000,
			LogLevel:      "info",
			LogFile:       "ability-holdem.log",
		},
		Blinds: []BlindLevel{
			{SmallBlind: 100, BigBlind: 200, DurationS: 50},
			{SmallBlind: 200, BigBlind: 400, DurationS: 50},
			{SmallBlind: 300, BigBlind: 600, DurationS: 50},
			{SmallBlind: 500, BigBlind: 1000, DurationS: 50},
			{SmallBlind: 750, BigBlind: 1500, DurationS: 50},
			{SmallBlind: 1000, BigBlind: 2000, DurationS: 50},
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to the
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	def := DefaultConfig()
	if cfg.Game.StartingChips == 0 {
		cfg.Game.StartingChips = def.Game.StartingChips
	}
	if cfg.Game.ThinkDelayMs == 0 {
		cfg.Game.ThinkDelayMs = def.Game.ThinkDelayMs
	}
	if cfg.Game.EquityTrials == 0 {
		cfg.Game.EquityTrials = def.Game.EquityTrials
	}
	if cfg.Game.LogLevel == "" {
		cfg.Game.LogLevel = def.Game.LogLevel
	}
	if cfg.Game.LogFile == "" {
		cfg.Game.LogFile = def.Game.LogFile
	}
	if len(cfg.Blinds) == 0 {
		cfg.Blinds = def.Blinds
	}
	for i := range cfg.Blinds {
		if cfg.Blinds[i].DurationS == 0 {
			cfg.Blinds[i].DurationS = 50
		}
	}
	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Game.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive")
	}
	for i, b := range c.Blinds {
		if b.SmallBlind <= 0 {
			return fmt.Errorf("blind level %d: small blind must be positive", i)
		}
		if b.BigBlind <= b.SmallBlind {
			return fmt.Errorf("blind level %d: big blind must be greater than small blind", i)
		}
	}
	return nil
}
