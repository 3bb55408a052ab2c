package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "echoverse.db", c.DatabaseDSN)
	assert.Equal(t, 5*time.Second, c.CheckInterval)
	assert.Equal(t, 12*time.Hour, c.TokenValidityDuration)
	assert.False(t, c.TimeCapsuleMode)
	assert.Equal(t, AudioStorageMemory, c.AudioStorage)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "playback", c.PlaybackDir)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	assert.Empty(t, cmp.Diff(defaults(), load(nil)))
}

func TestParseFlags(t *testing.T) {
	cfg := defaults()
	parseFlags(cfg, []string{
		"-d", "memory", "-s", "secret", "-t", "30", "-i", "2", "-m",
		"-a", "s3", "-f", "data", "-o", "out", "-u", "user", "-p", "password",
		"-b", "bucket", "-g", "eu-west-1", "-e", "http://minio:9000", "-l", "debug", "-demo",
	})

	expected := &Config{
		DatabaseDSN:           "memory",
		SecretKey:             "secret",
		TokenValidityDuration: 30 * time.Minute,
		CheckInterval:         2 * time.Second,
		TimeCapsuleMode:       true,
		AudioStorage:          "s3",
		AudioDir:              "data",
		PlaybackDir:           "out",
		S3RootUser:            "user",
		S3RootPassword:        "password",
		S3Bucket:              "bucket",
		S3Region:              "eu-west-1",
		S3BaseEndpoint:        "http://minio:9000",
		LogLevel:              "debug",
		SeedDemo:              true,
	}
	assert.Empty(t, cmp.Diff(expected, cfg))
}

func TestParseFlags_BadValuePanics(t *testing.T) {
	cfg := defaults()
	require.Panics(t, func() { parseFlags(cfg, []string{"-i", "soon"}) })
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"database_dsn":      "memory",
		"check_interval":    "1500ms",
		"time_capsule_mode": true,
		"audio_storage":     "disk",
		"audio_dir":         "/tmp/audio",
	})

	t.Run("partial file overrides only named fields", func(t *testing.T) {
		cfg := defaults()
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "memory", cfg.DatabaseDSN)
		assert.Equal(t, 1500*time.Millisecond, cfg.CheckInterval)
		assert.True(t, cfg.TimeCapsuleMode)
		assert.Equal(t, "disk", cfg.AudioStorage)
		assert.Equal(t, "/tmp/audio", cfg.AudioDir)
		assert.Equal(t, "secretKey", cfg.SecretKey)
	})

	t.Run("flags win over json", func(t *testing.T) {
		cfg := load([]string{"-c", path, "-a", "memory", "-m=false"})

		assert.Equal(t, "memory", cfg.AudioStorage)
		assert.False(t, cfg.TimeCapsuleMode)
		assert.Equal(t, 1500*time.Millisecond, cfg.CheckInterval)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := defaults()
		parseJson(cfg, []string{"-i", "3"})
		assert.Empty(t, cmp.Diff(defaults(), cfg))
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))

		cfg := defaults()
		require.Panics(t, func() { parseJson(cfg, []string{"-c", bad}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		cfg := defaults()
		require.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(t.TempDir(), "none.json")}) })
	})
}
