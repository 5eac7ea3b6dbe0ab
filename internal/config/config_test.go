package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, decay.DefaultDistributionCap, cfg.DistributionCap)
	assert.Equal(t, decay.DefaultMassNodes, cfg.MassNodes)
	assert.Equal(t, decay.DefaultWidthCut, cfg.WidthCut)
	assert.Empty(t, cfg.DBPath)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	fd, err := cfg.DistributionFeeddown()
	require.NoError(t, err)
	assert.Equal(t, particle.FeeddownStabilityFlag, fd)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DECAYCHAIN_DISTRIBUTION_CAP", "50")
	t.Setenv("DECAYCHAIN_MASS_NODES", "8")
	t.Setenv("DECAYCHAIN_WIDTH_CUT", "3.5")
	t.Setenv("DECAYCHAIN_DB", "/tmp/decays.db")
	t.Setenv("DECAYCHAIN_LOG_LEVEL", "debug")
	t.Setenv("DECAYCHAIN_FEEDDOWN", "em")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.DistributionCap)
	assert.Equal(t, decay.PropertiesOptions{MassNodes: 8, WidthCut: 3.5}, cfg.Properties())
	assert.Equal(t, "/tmp/decays.db", cfg.DBPath)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	fd, err := cfg.DistributionFeeddown()
	require.NoError(t, err)
	assert.Equal(t, particle.FeeddownElectromagnetic, fd)
	assert.Len(t, cfg.ResolverOptions(), 3)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"non-integer cap", "DECAYCHAIN_DISTRIBUTION_CAP", "many", "parse env:"},
		{"negative nodes", "DECAYCHAIN_MASS_NODES", "-1", "DECAYCHAIN_MASS_NODES"},
		{"bad level", "DECAYCHAIN_LOG_LEVEL", "loud", "DECAYCHAIN_LOG_LEVEL"},
		{"bad feeddown", "DECAYCHAIN_FEEDDOWN", "hadronic", "unknown feeddown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
