// Package config provides configuration loading, defaults, and validation for
// the production scheduler.
package config

import (
	"fmt"
	"strings"

	"github.com/amyrzhang/productionSchedule/internal/logging"
	"github.com/amyrzhang/productionSchedule/internal/model"
)

// Config is the root configuration object.
type Config struct {
	Plan    PlanConfig        `mapstructure:"plan"`
	Output  OutputConfig      `mapstructure:"output"`
	Archive ArchiveConfig     `mapstructure:"archive"`
	Log     logging.LogConfig `mapstructure:"log"`
}

// PlanConfig holds the raw-unit geometry the planner packs against.
type PlanConfig struct {
	FixedHeight   int  `mapstructure:"fixed_height"`
	UnitWidth     int  `mapstructure:"unit_width"`
	UnitLength    int  `mapstructure:"unit_length"`
	ByProductStep int  `mapstructure:"by_product_step"`
	Parallel      bool `mapstructure:"parallel"`
}

// OutputConfig controls how plans are written.
type OutputConfig struct {
	// Format is one of csv, xlsx, json, pdf.
	Format string `mapstructure:"format"`
	// Encoding applies to csv output only: utf-8 or gbk.
	Encoding string `mapstructure:"encoding"`
	// Tickets also writes a mold ticket PDF next to the plan.
	Tickets bool `mapstructure:"tickets"`
}

// ArchiveConfig controls the plan archive.
type ArchiveConfig struct {
	// Enabled saves every built plan into Dir.
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// PlanSettings converts the plan section into engine settings.
func (c *Config) PlanSettings() model.PlanSettings {
	return model.PlanSettings{
		FixedHeight:   c.Plan.FixedHeight,
		UnitWidth:     c.Plan.UnitWidth,
		UnitLength:    c.Plan.UnitLength,
		ByProductStep: c.Plan.ByProductStep,
		Parallel:      c.Plan.Parallel,
	}
}

// Validate reports the first invalid setting as a CONFIG error.
func (c *Config) Validate() error {
	if err := c.PlanSettings().Validate(); err != nil {
		return err
	}

	switch c.Output.Format {
	case FormatCSV, FormatXLSX, FormatJSON, FormatPDF:
	default:
		return model.NewConfigError("output.format %q is invalid; expected csv|xlsx|json|pdf", c.Output.Format)
	}

	switch strings.ToLower(c.Output.Encoding) {
	case "utf-8", "utf8", "gbk":
	default:
		return model.NewConfigError("output.encoding %q is invalid; expected utf-8|gbk", c.Output.Encoding)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return model.NewConfigError("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return model.NewConfigError("log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}

// String renders the effective configuration for verbose logging.
func (c *Config) String() string {
	return fmt.Sprintf("unit=%dx%dx%d step=%d parallel=%t format=%s encoding=%s",
		c.Plan.UnitLength, c.Plan.UnitWidth, c.Plan.FixedHeight, c.Plan.ByProductStep,
		c.Plan.Parallel, c.Output.Format, c.Output.Encoding)
}
