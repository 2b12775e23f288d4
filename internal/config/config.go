// Package config loads sembako settings from defaults, an optional YAML
// file, SEMBAKO_* environment variables and command-line overrides, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// SEMBAKO_STORAGE_DRIVER or SEMBAKO_BLOB_S3_BUCKET.
const EnvPrefix = "SEMBAKO"

// Storage drivers.
const (
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

// Blob drivers.
const (
	BlobFilesystem = "fs"
	BlobS3         = "s3"
	BlobMemory     = "memory"
)

const (
	defaultBlobRoot     = "./blobdata"
	defaultS3Region     = "us-east-1"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Blob    BlobConfig    `mapstructure:"blob"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StorageConfig selects the recipient store. Empty DSNs and paths fall back
// to each backend's built-in default.
type StorageConfig struct {
	Driver       string `mapstructure:"driver"`
	MySQLDSN     string `mapstructure:"mysql_dsn"`
	PostgresDSN  string `mapstructure:"postgres_dsn"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	EnsureSchema bool   `mapstructure:"ensure_schema"`
}

type BlobConfig struct {
	Driver      string `mapstructure:"driver"`
	FSRoot      string `mapstructure:"fs_root"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`
	// Static credentials; when empty the AWS default credential chain applies.
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	File      string `mapstructure:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

type MetricsConfig struct {
	// Addr enables the Prometheus /metrics listener when non-empty.
	Addr string `mapstructure:"addr"`
}

type LoadOptions struct {
	// ConfigFile is an optional YAML file; empty means defaults and env only.
	ConfigFile string
	// Overrides are applied last, keyed by dotted path (e.g. "storage.driver").
	Overrides map[string]any
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{Driver: StorageMySQL, EnsureSchema: true},
		Blob:    BlobConfig{Driver: BlobFilesystem, FSRoot: defaultBlobRoot, S3Region: defaultS3Region},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: defaultLogFormat, MaxSizeMB: defaultLogMaxSizeMB, MaxFiles: defaultLogMaxFiles},
	}
}

// Load resolves the configuration and validates it.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	}
	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.mysql_dsn", d.Storage.MySQLDSN)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.ensure_schema", d.Storage.EnsureSchema)

	v.SetDefault("blob.driver", d.Blob.Driver)
	v.SetDefault("blob.fs_root", d.Blob.FSRoot)
	v.SetDefault("blob.s3_bucket", d.Blob.S3Bucket)
	v.SetDefault("blob.s3_region", d.Blob.S3Region)
	v.SetDefault("blob.s3_endpoint", d.Blob.S3Endpoint)
	v.SetDefault("blob.s3_path_style", d.Blob.S3PathStyle)
	v.SetDefault("blob.s3_access_key_id", d.Blob.S3AccessKeyID)
	v.SetDefault("blob.s3_secret_access_key", d.Blob.S3SecretAccessKey)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_files", d.Logging.MaxFiles)

	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// Validate rejects unknown drivers and incomplete driver settings.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMySQL, StoragePostgres, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case BlobFilesystem, BlobMemory:
	case BlobS3:
		if c.Blob.S3Bucket == "" {
			return fmt.Errorf("%w: blob.s3_bucket is required for the s3 driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown blob driver %q", ErrInvalidConfig, c.Blob.Driver)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}
