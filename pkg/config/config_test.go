package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-grid/internal/timetable"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, SourceCSV, cfg.Sessions.Source)
	assert.Equal(t, []string{"1", "2", "4", "6", "8", "10"}, cfg.Sessions.Cycles)
	assert.Equal(t, "./output", cfg.Export.Dir)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)

	grid, err := cfg.Grid.Timetable()
	require.NoError(t, err)
	assert.Equal(t, timetable.DefaultGridConfig(), grid)
}

func TestOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"SESSION_SOURCE":    "POSTGRES",
		"GRID_START":        "07:00",
		"GRID_SLOT_MINUTES": 50,
		"CYCLES":            " 3, ,5 ",
		"CACHE_TTL":         "not-a-duration",
	}))
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Sessions.Source)
	assert.Equal(t, []string{"3", "5"}, cfg.Sessions.Cycles)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)

	grid, err := cfg.Grid.Timetable()
	require.NoError(t, err)
	assert.Equal(t, timetable.Clock(7, 0), grid.Start)
	assert.Equal(t, 50*time.Minute, grid.SlotDuration)
}

func TestInvalidGridIsConfigurationError(t *testing.T) {
	for name, overrides := range map[string]map[string]any{
		"inverted":  {"GRID_START": "23:00"},
		"bad clock": {"GRID_END": "late"},
		"zero slot": {"GRID_SLOT_MINUTES": 0},
		"source":    {"SESSION_SOURCE": "xlsx"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fromViper(newViper(overrides))
			require.True(t, errors.Is(err, timetable.ErrConfiguration), "got %v", err)
		})
	}
}
