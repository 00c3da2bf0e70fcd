package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	sim "github.com/jerxma-git/cat-houses-model/sim"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_EmptyPath_ReturnsDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestLoadConfig_ShippedFactoryYAML_MatchesDefaults(t *testing.T) {
	// GIVEN the factory.yaml at the repository root
	path := "../factory.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("factory.yaml not found, skipping")
	}

	// WHEN loaded
	cfg, err := loadConfig(path)

	// THEN it restates the built-in defaults exactly
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFile_KeepsOtherDefaults(t *testing.T) {
	// GIVEN a file overriding only two nested fields
	path := writeConfigFile(t, "plan:\n  planned_count: 12\nbreakage:\n  assembly: 0.5\n")

	// WHEN loaded
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	// THEN those fields change and siblings keep their defaults
	want := sim.DefaultConfig()
	want.Plan.PlannedCount = 12
	want.Breakage.Assembly = 0.5
	assert.Equal(t, want, cfg)
}

func TestLoadConfig_EmptyFile_ReturnsDefaults(t *testing.T) {
	path := writeConfigFile(t, "")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestLoadConfig_UnknownField_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"top-level typo", "plann:\n  planned_count: 5\n"},
		{"nested typo", "pools:\n  bulders: 3\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfigFile(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parsing config")
		})
	}
}

func TestLoadConfig_MissingFile_Error(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func newConfigTestCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	registerConfigFlags(c)
	return c
}

func TestApplyOverrides_OnlyChangedFlagsApply(t *testing.T) {
	// GIVEN a config whose pools differ from the flag defaults
	c := newConfigTestCommand()
	cfg := sim.DefaultConfig()
	cfg.Pools.Builders = 2
	cfg.Pools.Testers = 3

	// WHEN only --testers and --planned are set
	require.NoError(t, c.Flags().Set("testers", "9"))
	require.NoError(t, c.Flags().Set("planned", "17"))
	applyOverrides(c, &cfg)

	// THEN those fields change and untouched flags leave the config alone
	assert.Equal(t, 9, cfg.Pools.Testers)
	assert.Equal(t, 17, cfg.Plan.PlannedCount)
	assert.Equal(t, 2, cfg.Pools.Builders)
	assert.Equal(t, sim.DefaultConfig().Plan.PremiumFraction, cfg.Plan.PremiumFraction)
}

func TestEffectiveConfig_InvalidOverride_ConfigError(t *testing.T) {
	c := newConfigTestCommand()
	require.NoError(t, c.Flags().Set("premium-ratio", "1.5"))

	_, err := effectiveConfig(c)

	var ce *sim.ConfigError
	require.True(t, errors.As(err, &ce), "want *sim.ConfigError, got %v", err)
	assert.Equal(t, "plan.premium_fraction", ce.Field)
}

func TestConfigCommand_PrintsEffectiveYAML(t *testing.T) {
	// GIVEN the config subcommand with a builder override
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "--builders", "7"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	// WHEN executed
	require.NoError(t, rootCmd.Execute())

	// THEN the printed YAML decodes back to the defaults plus the override
	var got sim.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	want := sim.DefaultConfig()
	want.Pools.Builders = 7
	assert.Equal(t, want, got)
}
