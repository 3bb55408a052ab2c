package blobstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/cryptox"
)

var ErrKeyWiped = errors.New("sealed store key wiped")

// Sealed encrypts payloads with a per-user key before handing them to the
// wrapped store.
type Sealed struct {
	inner Store

	mu  sync.RWMutex
	key []byte
}

// NewSealed keeps its own copy of key.
func NewSealed(inner Store, key []byte) *Sealed {
	return &Sealed{inner: inner, key: append([]byte(nil), key...)}
}

func (s *Sealed) Put(ctx context.Context, key string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return ErrKeyWiped
	}
	sealed, err := cryptox.Seal(data, s.key)
	if err != nil {
		return fmt.Errorf("seal blob: %w", err)
	}
	return s.inner.Put(ctx, key, sealed)
}

// Get holds the key for the whole read, so Wipe waits for reads in flight.
func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, ErrKeyWiped
	}
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return data, nil
}

func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Wipe zeroes the key once in-flight reads and writes are done. Later Put and
// Get calls fail with ErrKeyWiped.
func (s *Sealed) Wipe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = nil
}
