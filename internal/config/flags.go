package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/flagx"
)

var knownFlags = []string{
	"-d", "-s", "-t", "-i", "-m", "-a", "-f", "-o",
	"-u", "-p", "-b", "-g", "-e", "-l", "-demo",
}

// parseFlags overlays command-line flags onto config. See the package
// documentation for the flag list. Token validity is given in minutes and the
// re-check interval in seconds. Boolean flags take the "-m" or "-m=false"
// form.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "users database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "session token validity (in minutes)")
	checkInterval := fs.Int("i", int(config.CheckInterval.Seconds()), "unlock re-check interval (in seconds)")

	fs.BoolVar(&config.TimeCapsuleMode, "m", config.TimeCapsuleMode, "time capsule mode")
	fs.StringVar(&config.AudioStorage, "a", config.AudioStorage, "audio storage: memory, disk or s3")
	fs.StringVar(&config.AudioDir, "f", config.AudioDir, "audio directory for disk storage")
	fs.StringVar(&config.PlaybackDir, "o", config.PlaybackDir, "directory for played back recordings")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.SeedDemo, "demo", config.SeedDemo, "seed the demo account")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	// Durations keep sub-unit precision from defaults or JSON unless the flag
	// was actually given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "i":
			config.CheckInterval = time.Duration(*checkInterval) * time.Second
		}
	})
}
