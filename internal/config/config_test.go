package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
world:
  seed: 12345
  activation_range: 120
  deactivation_offset: 32
  save_path: /tmp/voxel_saves
  tick_rate: 30
  use_badger: true
eventbus:
  url: nats://localhost:4222
  stream: WORLD_EVENTS
metrics:
  port: 2112
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.EqualValues(t, 12345, cfg.World.Seed)
	require.Equal(t, 120.0, cfg.World.GetActivationRange())
	require.Equal(t, 32.0, cfg.World.GetDeactivationOffset())
	require.Equal(t, "/tmp/voxel_saves", cfg.World.GetSavePath())
	require.Equal(t, 30, cfg.World.GetTickRate())
	require.True(t, cfg.World.UseBadger)
	require.Equal(t, "nats://localhost:4222", cfg.EventBus.URL)
	require.Equal(t, 2112, cfg.Metrics.Port)
}

func TestLoadWithoutConfig(t *testing.T) {
	t.Setenv("GAME_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Nil(t, cfg, "Без конфига используются дефолты")
}

func TestDefaults(t *testing.T) {
	t.Setenv("WORLD_ACTIVATION_RANGE", "")
	t.Setenv("WORLD_DEACTIVATION_OFFSET", "")
	t.Setenv("WORLD_SAVE_PATH", "")

	var w WorldConfig
	require.Equal(t, 80.0, w.GetActivationRange())
	require.Equal(t, 16.0, w.GetDeactivationOffset())
	require.Equal(t, "Saves", w.GetSavePath())
	require.Equal(t, 60, w.GetTickRate())
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("WORLD_ACTIVATION_RANGE", "55.5")

	var w WorldConfig
	require.Equal(t, 55.5, w.GetActivationRange(), "ENV перекрывает дефолт, когда конфиг пуст")

	w.ActivationRange = 100
	require.Equal(t, 100.0, w.GetActivationRange(), "Значение из конфига главнее ENV")
}
