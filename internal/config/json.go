package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/echoverse/internal/flagx"
	"github.com/dmitrijs2005/echoverse/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer and
// zero values mean "not set" so a partial file only overrides what it names.
type JsonConfig struct {
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CheckInterval         timex.Duration `json:"check_interval"`
	TimeCapsuleMode       *bool          `json:"time_capsule_mode"`
	AudioStorage          string         `json:"audio_storage"`
	AudioDir              string         `json:"audio_dir"`
	PlaybackDir           string         `json:"playback_dir"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	LogLevel              string         `json:"log_level"`
	SeedDemo              *bool          `json:"seed_demo"`
}

// parseJson loads the file named by -c/-config into config. Nothing happens
// when neither flag is given. An unreadable or malformed file panics, the
// same way a bad flag does.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CheckInterval.Duration > 0 {
		config.CheckInterval = c.CheckInterval.Duration
	}
	if c.TimeCapsuleMode != nil {
		config.TimeCapsuleMode = *c.TimeCapsuleMode
	}
	setString(&config.AudioStorage, c.AudioStorage)
	setString(&config.AudioDir, c.AudioDir)
	setString(&config.PlaybackDir, c.PlaybackDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogLevel, c.LogLevel)
	if c.SeedDemo != nil {
		config.SeedDemo = *c.SeedDemo
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
