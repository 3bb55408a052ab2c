// Package blobstore keeps audio payloads. Entries only hold the key a store
// hands out; the bytes live in memory, on disk (diskv) or in S3.
package blobstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is a flat key/value store for audio payloads.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get fails with common.ErrorNotFound for an unknown key.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh storage key for an owner's recording, grouped by
// upload day.
func NewKey(ownerID string, now time.Time) string {
	return fmt.Sprintf("users/%s/%d/%d/%d/%v", ownerID, now.Year(), now.Month(), now.Day(), uuid.New())
}
