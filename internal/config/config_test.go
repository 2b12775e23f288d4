package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, StorageMySQL, cfg.Storage.Driver)
	require.True(t, cfg.Storage.EnsureSchema)
	require.Empty(t, cfg.Metrics.Addr)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SEMBAKO_STORAGE_DRIVER", "sqlite")
	t.Setenv("SEMBAKO_STORAGE_SQLITE_PATH", "/tmp/sembako.db")
	t.Setenv("SEMBAKO_STORAGE_ENSURE_SCHEMA", "false")
	t.Setenv("SEMBAKO_LOGGING_LEVEL", "debug")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, StorageSQLite, cfg.Storage.Driver)
	require.Equal(t, "/tmp/sembako.db", cfg.Storage.SQLitePath)
	require.False(t, cfg.Storage.EnsureSchema)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileThenOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sembako.yaml")
	body := []byte("storage:\n  driver: postgres\n  postgres_dsn: postgres://db/sembako\nblob:\n  driver: memory\nmetrics:\n  addr: \":9100\"\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(LoadOptions{
		ConfigFile: path,
		Overrides:  map[string]any{"storage.driver": StorageMemory},
	})
	require.NoError(t, err)
	require.Equal(t, StorageMemory, cfg.Storage.Driver)
	require.Equal(t, "postgres://db/sembako", cfg.Storage.PostgresDSN)
	require.Equal(t, BlobMemory, cfg.Blob.Driver)
	require.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestValidateRejectsInvalidSettings(t *testing.T) {
	cases := map[string]func(*Config){
		"storage driver": func(c *Config) { c.Storage.Driver = "oracle" },
		"blob driver":    func(c *Config) { c.Blob.Driver = "ftp" },
		"s3 bucket":      func(c *Config) { c.Blob.Driver = BlobS3 },
		"log level":      func(c *Config) { c.Logging.Level = "loud" },
		"log format":     func(c *Config) { c.Logging.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsUnknownDriverFromEnv(t *testing.T) {
	t.Setenv("SEMBAKO_STORAGE_DRIVER", "oracle")
	_, err := Load(LoadOptions{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
