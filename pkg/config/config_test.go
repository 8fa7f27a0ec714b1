package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.Error(t, err)
	})
	t.Run("leveldb", func(t *testing.T) {
		path := writeConfig(t, `
Storage:
  Type: leveldb
  LevelDBOptions:
    DataDirectoryPath: /tmp/vkv
LogLevel: debug
SnapshotCacheSize: 16
Prometheus:
  Enabled: true
  Addresses:
    - ":2112"
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "leveldb", cfg.Storage.Type)
		require.Equal(t, "/tmp/vkv", cfg.Storage.LevelDBOptions.DataDirectoryPath)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, 16, cfg.SnapshotCacheSize)
		require.True(t, cfg.Prometheus.Enabled)
		require.Equal(t, []string{":2112"}, cfg.Prometheus.Addresses)
	})
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `{}`))
		require.NoError(t, err)
		require.Equal(t, "inmemory", cfg.Storage.Type)
		require.False(t, cfg.Prometheus.Enabled)
	})
	t.Run("bad storage type", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
Storage:
  Type: redis
`))
		require.Error(t, err)
	})
	t.Run("missing leveldb path", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
Storage:
  Type: leveldb
`))
		require.Error(t, err)
	})
}
