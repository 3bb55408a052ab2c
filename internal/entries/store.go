// Package entries holds the diary entries of the active session.
//
// The store is in memory and append-only by id: entries are created once,
// never deleted, and only their reflection changes afterwards.
package entries

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/timex"
	"github.com/dmitrijs2005/echoverse/internal/unlock"
	"github.com/google/uuid"
)

// Store keeps the entries of one owner.
type Store struct {
	mu      sync.RWMutex
	ownerID string
	clock   timex.Clock
	entries map[string]*models.Entry
	newID   func() string
}

func NewStore(ownerID string, clock timex.Clock) *Store {
	return &Store{
		ownerID: ownerID,
		clock:   clock,
		entries: make(map[string]*models.Entry),
		newID:   uuid.NewString,
	}
}

// ValidateDraft checks the user supplied fields of a new entry against now.
// It fails with common.ErrorValidation on an empty title, an unknown mood or
// an unlock moment that is not after now.
func ValidateDraft(title string, mood models.Mood, unlockAt, now time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if !mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", common.ErrorValidation, mood)
	}
	if !unlockAt.After(now) {
		return fmt.Errorf("%w: unlock date must be in the future", common.ErrorValidation)
	}
	return nil
}

// Create validates the input and appends a new locked entry. Besides the
// ValidateDraft rules it requires an audio reference.
func (s *Store) Create(title string, mood models.Mood, audio models.AudioRef, unlockAt time.Time) (models.Entry, error) {
	if audio.IsZero() {
		return models.Entry{}, fmt.Errorf("%w: audio is required", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if err := ValidateDraft(title, mood, unlockAt, now); err != nil {
		return models.Entry{}, err
	}
	title = strings.TrimSpace(title)

	id := s.newID()
	for {
		if _, taken := s.entries[id]; !taken {
			break
		}
		id = s.newID()
	}

	e := &models.Entry{
		ID:        id,
		OwnerID:   s.ownerID,
		Title:     title,
		Mood:      mood,
		Audio:     audio,
		CreatedAt: now,
		UnlockAt:  unlockAt,
	}
	s.entries[id] = e

	return *e, nil
}

// Import adds an entry recorded earlier, keeping its CreatedAt. The entry may
// already be unlocked. A missing ID is assigned; a taken one is rejected.
func (s *Store) Import(e models.Entry) (models.Entry, error) {
	if e.Audio.IsZero() {
		return models.Entry{}, fmt.Errorf("%w: audio is required", common.ErrorValidation)
	}
	if strings.TrimSpace(e.Title) == "" || !e.Mood.Valid() {
		return models.Entry{}, fmt.Errorf("%w: title and mood are required", common.ErrorValidation)
	}
	if !e.UnlockAt.After(e.CreatedAt) {
		return models.Entry{}, fmt.Errorf("%w: unlock date must follow creation", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.newID()
	}
	if _, taken := s.entries[e.ID]; taken {
		return models.Entry{}, fmt.Errorf("%w: entry %s already exists", common.ErrorValidation, e.ID)
	}
	e.OwnerID = s.ownerID
	e.Title = strings.TrimSpace(e.Title)
	s.entries[e.ID] = &e
	return e, nil
}

// SetReflection replaces the reflection of an unlocked entry. Whether the
// entry is unlocked is evaluated now, under p.
func (s *Store) SetReflection(id string, text string, p unlock.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: entry %s", common.ErrorNotFound, id)
	}
	if !unlock.IsUnlocked(*e, s.clock.Now(), p) {
		return fmt.Errorf("%w: %s", common.ErrorLocked, e.Title)
	}

	e.Reflection = text
	return nil
}

// Get returns a copy of one entry.
func (s *Store) Get(id string) (models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return models.Entry{}, fmt.Errorf("%w: entry %s", common.ErrorNotFound, id)
	}
	return *e, nil
}

// All returns a snapshot of every entry in no particular order.
func (s *Store) All() []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
