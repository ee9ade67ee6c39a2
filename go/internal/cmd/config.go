package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hardwoodgm/hardwood/go/internal/draft"
	"github.com/hardwoodgm/hardwood/go/internal/season"
	"github.com/hardwoodgm/hardwood/go/internal/sim"
)

// Config is the league configuration file.
type Config struct {
	League struct {
		ScheduleGames    int `yaml:"schedule_games"`
		TradeDeadlineDay int `yaml:"trade_deadline_day"`
		AllStarDay       int `yaml:"all_star_day"`
	} `yaml:"league"`
	Lottery struct {
		Odds []float64 `yaml:"odds"`
	} `yaml:"lottery"`
	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}

// seasonConfig maps the file onto the phase controller's settings,
// falling back to defaults for anything unset.
func (c *Config) seasonConfig() season.Config {
	cfg := season.DefaultConfig()
	if c.League.ScheduleGames > 0 {
		cfg.ScheduleGames = c.League.ScheduleGames
	}
	if c.League.TradeDeadlineDay > 0 {
		cfg.TradeDeadlineDay = c.League.TradeDeadlineDay
	}
	if c.League.AllStarDay > 0 {
		cfg.AllStarDay = c.League.AllStarDay
	}
	return cfg
}

// lotteryOdds returns the configured odds table, or the default when the
// file doesn't carry a full one.
func (c *Config) lotteryOdds() sim.LotteryOdds {
	if len(c.Lottery.Odds) == draft.LotterySize {
		return sim.LotteryOdds(c.Lottery.Odds)
	}
	return draft.DefaultLotteryOdds
}
