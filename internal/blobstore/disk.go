package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps payloads as files below a base directory. Key segments
// separated by "/" become sub-directories.
type DiskStore struct {
	d *diskv.Diskv
}

func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      4 * common.MiB,
	})}
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pk *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pk.Path...), pk.FileName), "/")
}

func (s *DiskStore) Put(_ context.Context, key string, data []byte) error {
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: blob %s", common.ErrorNotFound, key)
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("erase blob %s: %w", key, err)
	}
	return nil
}
