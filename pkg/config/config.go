// Package config holds the top level configuration of the database and
// its auxiliary services.
package config

import (
	"fmt"
	"os"

	"github.com/vkv-dev/vkv/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Version is the version of the binary, set at build time.
var Version string

// Config is the top level struct representing the database
// configuration.
type Config struct {
	Storage storage.DBConfiguration `yaml:"Storage"`
	// LogLevel is a minimal logged messages level, one of zap's
	// level names ("debug", "info", "warn", "error"). Empty value
	// means "info".
	LogLevel string `yaml:"LogLevel"`
	// SnapshotCacheSize limits the number of historical versions
	// addressable by readers. Zero selects the built-in default.
	SnapshotCacheSize int          `yaml:"SnapshotCacheSize"`
	Prometheus        BasicService `yaml:"Prometheus"`
	Pprof             BasicService `yaml:"Pprof"`
}

// DefaultConfig returns the config with an in-memory backend, suitable
// for tests and one-off runs.
func DefaultConfig() Config {
	return Config{
		Storage: storage.DBConfiguration{Type: "inmemory"},
	}
}

// Load attempts to load the config from the given path.
func Load(path string) (Config, error) {
	configData, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	config := DefaultConfig()
	if err = yaml.Unmarshal(configData, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the correctness of the config.
func (c Config) Validate() error {
	switch c.Storage.Type {
	case "leveldb":
		if c.Storage.LevelDBOptions.DataDirectoryPath == "" {
			return fmt.Errorf("no DataDirectoryPath set for leveldb storage")
		}
	case "boltdb":
		if c.Storage.BoltDBOptions.FilePath == "" {
			return fmt.Errorf("no FilePath set for boltdb storage")
		}
	case "inmemory":
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	if c.SnapshotCacheSize < 0 {
		return fmt.Errorf("negative SnapshotCacheSize: %d", c.SnapshotCacheSize)
	}
	return nil
}
