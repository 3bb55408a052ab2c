// Package config loads runtime configuration for the EchoVerse CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   users database DSN ("memory", "postgres://...", or a SQLite file)
//	-s string   HMAC secret used to sign session tokens
//	-t int      session token validity, minutes
//	-i int      unlock re-check interval, seconds
//	-m bool     start sessions in time capsule mode
//	-a string   audio storage backend: memory, disk or s3
//	-f string   directory for the disk audio backend
//	-o string   directory the CLI writes played back recordings to
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-l string   log level (debug, info, warn, error)
//	-demo bool  seed the demo account
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "database_dsn": "echoverse.db",
//	  "check_interval": "5s",
//	  "time_capsule_mode": false,
//	  "audio_storage": "disk",
//	  "audio_dir": "audio"
//	}
package config
