package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "SCHEDULE"

// settingKeys lists every key so that SCHEDULE_* variables are honoured even
// when no config file mentions the key.
var settingKeys = []string{
	"plan.fixed_height",
	"plan.unit_width",
	"plan.unit_length",
	"plan.by_product_step",
	"plan.parallel",
	"output.format",
	"output.encoding",
	"output.tickets",
	"archive.enabled",
	"archive.dir",
	"log.level",
	"log.format",
}

// newViper builds a Viper instance with YAML file type, the SCHEDULE_ env
// prefix and a key replacer that maps "plan.unit_length" to
// SCHEDULE_PLAN_UNIT_LENGTH.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges SCHEDULE_* environment
// overrides, applies defaults for unset fields, and validates the result.
// An empty configPath loads from the environment alone.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, model.NewConfigError("failed to read config file %q", configPath).WithCause(err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from SCHEDULE_* environment variables and defaults.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, model.NewConfigError("failed to unmarshal configuration").WithCause(err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
