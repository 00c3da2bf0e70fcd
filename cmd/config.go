package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/jerxma-git/cat-houses-model/sim"
)

// configCmd prints the effective configuration as YAML
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			logrus.Fatalf("Encoding config: %v", err)
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			logrus.Fatalf("Writing config: %v", err)
		}
	},
}

// loadConfig layers the YAML file at path over sim.DefaultConfig.
// Unknown fields are rejected; an empty path or empty file yields the defaults.
func loadConfig(path string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// applyOverrides copies explicitly set CLI flags into cfg.
// Flags left at their defaults never override values from the config file.
func applyOverrides(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("planned") {
		cfg.Plan.PlannedCount = plannedCount
	}
	if flags.Changed("premium-ratio") {
		cfg.Plan.PremiumFraction = premiumRatio
	}
	if flags.Changed("builders") {
		cfg.Pools.Builders = builders
	}
	if flags.Changed("testers") {
		cfg.Pools.Testers = testers
	}
}

// effectiveConfig loads --config, applies flag overrides and validates the result.
func effectiveConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	applyOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
