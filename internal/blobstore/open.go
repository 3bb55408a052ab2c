package blobstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/echoverse/internal/config"
)

// Open builds the backend selected by cfg.AudioStorage.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.AudioStorage {
	case config.AudioStorageMemory, "":
		return NewMemoryStore(), nil
	case config.AudioStorageDisk:
		return NewDiskStore(cfg.AudioDir), nil
	case config.AudioStorageS3:
		return NewS3Store(ctx, S3Options{
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		return nil, fmt.Errorf("unknown audio storage %q", cfg.AudioStorage)
	}
}
