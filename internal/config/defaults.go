package config

import (
	"github.com/amyrzhang/productionSchedule/internal/model"
	"github.com/amyrzhang/productionSchedule/internal/project"
)

const (
	DefaultOutputFormat   = FormatCSV
	DefaultOutputEncoding = "utf-8"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields that have already been set (non-zero values) are left unchanged so
// that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	d := model.DefaultSettings()
	if cfg.Plan.FixedHeight == 0 {
		cfg.Plan.FixedHeight = d.FixedHeight
	}
	if cfg.Plan.UnitWidth == 0 {
		cfg.Plan.UnitWidth = d.UnitWidth
	}
	if cfg.Plan.UnitLength == 0 {
		cfg.Plan.UnitLength = d.UnitLength
	}
	if cfg.Plan.ByProductStep == 0 {
		cfg.Plan.ByProductStep = d.ByProductStep
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}
	if cfg.Output.Encoding == "" {
		cfg.Output.Encoding = DefaultOutputEncoding
	}

	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = project.DefaultArchiveDir()
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
