// Package config resolves runtime settings: built-in defaults, then an
// optional YAML file, then CATALOGCORE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "CATALOGCORE_"

// Config is the full runtime configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Blob    BlobConfig    `yaml:"blob"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StorageConfig selects the persistence gateway.
type StorageConfig struct {
	Driver      string `yaml:"driver" validate:"oneof=file sqlite postgres blob memory"`
	DataDir     string `yaml:"data_dir" validate:"required_if=Driver file"`
	SQLitePath  string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// BlobConfig configures the blob backend used when Storage.Driver is blob.
type BlobConfig struct {
	Driver      string `yaml:"driver" validate:"oneof=fs s3 memory"`
	FSRoot      string `yaml:"fs_root"`
	Prefix      string `yaml:"prefix"`
	S3Bucket    string `yaml:"s3_bucket" validate:"required_if=Driver s3"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint" validate:"omitempty,url"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// MetricsConfig configures the prometheus collectors.
type MetricsConfig struct {
	Namespace string `yaml:"namespace" validate:"required,alphanum"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver:     "file",
			DataDir:    "./data",
			SQLitePath: "catalogcore.db",
		},
		Blob: BlobConfig{
			Driver:   "fs",
			FSRoot:   "./blobdata",
			Prefix:   "catalogcore",
			S3Region: "us-east-1",
		},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Namespace: "catalogcore"},
	}
}

// Load reads path (or $CATALOGCORE_CONFIG when path is empty) over the
// defaults, applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path == "" {
		path, _ = lookup(EnvPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"STORAGE_DRIVER":    &cfg.Storage.Driver,
		"DATA_DIR":          &cfg.Storage.DataDir,
		"SQLITE_PATH":       &cfg.Storage.SQLitePath,
		"POSTGRES_DSN":      &cfg.Storage.PostgresDSN,
		"BLOB_DRIVER":       &cfg.Blob.Driver,
		"BLOB_FS_ROOT":      &cfg.Blob.FSRoot,
		"BLOB_PREFIX":       &cfg.Blob.Prefix,
		"BLOB_S3_BUCKET":    &cfg.Blob.S3Bucket,
		"BLOB_S3_REGION":    &cfg.Blob.S3Region,
		"BLOB_S3_ENDPOINT":  &cfg.Blob.S3Endpoint,
		"LOG_LEVEL":         &cfg.Log.Level,
		"METRICS_NAMESPACE": &cfg.Metrics.Namespace,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	bools := map[string]*bool{
		"BLOB_S3_PATH_STYLE": &cfg.Blob.S3PathStyle,
		"LOG_DEVELOPMENT":    &cfg.Log.Development,
	}
	for name, dst := range bools {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and reports every violation.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		case "required", "required_if":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
