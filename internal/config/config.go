package config

import (
	"os"
	"time"
)

// Audio storage backends.
const (
	AudioStorageMemory = "memory"
	AudioStorageDisk   = "disk"
	AudioStorageS3     = "s3"
)

// Config holds runtime settings for EchoVerse.
//
// Fields:
//   - DatabaseDSN: where user accounts live. "memory" keeps them in process.
//   - SecretKey / TokenValidityDuration: HS256 session token settings.
//   - CheckInterval: period of the background unlock re-check.
//   - TimeCapsuleMode: initial value of the global time capsule switch.
//   - AudioStorage / AudioDir: audio payload backend and its directory.
//   - PlaybackDir: where the CLI writes unlocked recordings for playback.
//   - S3*: object storage settings for the s3 backend (MinIO compatible).
type Config struct {
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	CheckInterval         time.Duration
	TimeCapsuleMode       bool
	AudioStorage          string
	AudioDir              string
	PlaybackDir           string
	S3RootUser            string
	S3RootPassword        string
	S3Bucket              string
	S3Region              string
	S3BaseEndpoint        string
	LogLevel              string
	SeedDemo              bool
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and S3 credentials must be overridden outside a demo.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "echoverse.db"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 12 * time.Hour
	c.CheckInterval = 5 * time.Second
	c.TimeCapsuleMode = false
	c.AudioStorage = AudioStorageMemory
	c.AudioDir = "audio"
	c.PlaybackDir = "playback"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "echoverse"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.LogLevel = "info"
	c.SeedDemo = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
