package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/plantbook/internal/paths"
	"github.com/mesh-intelligence/plantbook/pkg/types"
)

var initDateLayout string

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long:  "Create the configuration directory and write config.yaml with default values.\nAn existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	cmd.Flags().StringVar(&initDateLayout, "date-layout", types.DefaultDateLayout, "Go time layout for dates of new plants")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return systemError("resolve config directory: %w", err)
	}

	cfg := types.DefaultConfig()
	cfg.DateLayout = initDateLayout
	cfg.EventsPath = flags.eventsPath
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return systemError("create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, cfg)
	if err != nil {
		return systemError("write config: %w", err)
	}

	if written {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists: %s\n", configPath)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether the file was written; an existing file is kept.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	content := append([]byte(defaultConfigHeader), data...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
