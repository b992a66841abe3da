package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadWithEnv("", envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
}

func TestFileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  driver: sqlite
  sqlite_path: /var/lib/catalog.db
log:
  level: debug
`), 0o600))

	cfg, err := LoadWithEnv("", envFrom(map[string]string{
		"CATALOGCORE_CONFIG":          path,
		"CATALOGCORE_LOG_LEVEL":       "warn",
		"CATALOGCORE_LOG_DEVELOPMENT": "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/catalog.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, "catalogcore", cfg.Metrics.Namespace, "untouched keys keep defaults")
}

func TestBlobS3RequiresBucket(t *testing.T) {
	env := map[string]string{
		"CATALOGCORE_STORAGE_DRIVER": "blob",
		"CATALOGCORE_BLOB_DRIVER":    "s3",
	}
	_, err := LoadWithEnv("", envFrom(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob.s3_bucket is required")

	env["CATALOGCORE_BLOB_S3_BUCKET"] = "catalog"
	env["CATALOGCORE_BLOB_S3_ENDPOINT"] = "http://localhost:9000"
	env["CATALOGCORE_BLOB_S3_PATH_STYLE"] = "1"
	cfg, err := LoadWithEnv("", envFrom(env))
	require.NoError(t, err)
	assert.True(t, cfg.Blob.S3PathStyle)
	assert.Equal(t, "catalog", cfg.Blob.S3Bucket)
}

func TestValidationErrors(t *testing.T) {
	_, err := LoadWithEnv("", envFrom(map[string]string{
		"CATALOGCORE_STORAGE_DRIVER": "mongo",
		"CATALOGCORE_LOG_LEVEL":      "loud",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `storage.driver must be one of [file sqlite postgres blob memory], got "mongo"`)
	assert.Contains(t, err.Error(), "log.level must be one of")
}

func TestBadInputs(t *testing.T) {
	_, err := LoadWithEnv("", envFrom(map[string]string{"CATALOGCORE_LOG_DEVELOPMENT": "maybe"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOGCORE_LOG_DEVELOPMENT")

	_, err = LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), envFrom(nil))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "unknown.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  engine: x\n"), 0o600))
	_, err = LoadWithEnv(path, envFrom(nil))
	require.Error(t, err, "unknown keys are rejected")

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	cfg, err := LoadWithEnv(empty, envFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEmptyEnvValuesAreIgnored(t *testing.T) {
	cfg, err := LoadWithEnv("", envFrom(map[string]string{
		"CATALOGCORE_STORAGE_DRIVER": "  ",
		"CATALOGCORE_LOG_LEVEL":      "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}
