package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDateLayout = "date_layout"
	cfgKeyEventsPath = "events_path"
	cfgKeyColor      = "color"

	// envPrefix maps PLANTBOOK_DATE_LAYOUT and PLANTBOOK_COLOR onto config
	// keys. events_path has no such binding; PLANTBOOK_EVENTS is read by
	// paths.ResolveEventsPath below the config file.
	envPrefix = "PLANTBOOK"
)

// defaultConfigHeader is written above the generated settings by init.
const defaultConfigHeader = `# Plantbook configuration
#
# date_layout: Go time layout for the "date added" of new plants
#              (1/2/2006 prints dates like 1/31/2024).
# events_path: optional file receiving catalogue events as JSON lines.
# color:       style terminal output.

`

// loadConfig reads config.yaml from the config directory using Viper.
// A missing config.yaml is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyDateLayout, def.DateLayout)
	v.SetDefault(cfgKeyEventsPath, def.EventsPath)
	v.SetDefault(cfgKeyColor, def.Color)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyDateLayout, cfgKeyColor} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config.yaml is not an error.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// configFromViper decodes and validates the settings held by v.
func configFromViper(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
