package app

import (
	"errors"
	"fmt"

	mconfig "github.com/vk/energridgo/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	NetworkPath string // hcl file or directory

	// Mode overrides run.mode of the network when set.
	Mode string

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// StandardForm exports the built model as a constraint matrix and
	// reports its dimensions.
	StandardForm bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.NetworkPath == "" {
		return nil, errors.New("NetworkPath is a required configuration field and cannot be empty")
	}
	switch cfg.Mode {
	case "", mconfig.ModePlan, mconfig.ModeOperate:
	default:
		return nil, fmt.Errorf("mode must be %q or %q, got %q", mconfig.ModePlan, mconfig.ModeOperate, cfg.Mode)
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", cfg.WorkerCount)
	}
	return &cfg, nil
}
