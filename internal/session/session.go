// Package session ties one signed-in user to their journal: the entry store,
// the unlock policy, the periodic re-check and the notification inbox.
//
// Every step (user action or tick) runs under the session mutex, so a pass
// never observes a half-applied action.
package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/audio"
	"github.com/dmitrijs2005/echoverse/internal/blobstore"
	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/entries"
	"github.com/dmitrijs2005/echoverse/internal/logging"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/scheduler"
	"github.com/dmitrijs2005/echoverse/internal/timeline"
	"github.com/dmitrijs2005/echoverse/internal/timex"
	"github.com/dmitrijs2005/echoverse/internal/unlock"
)

var ErrClosed = errors.New("session closed")

// Deps are the collaborators a session runs against.
type Deps struct {
	Clock  timex.Clock
	Blobs  blobstore.Store
	Logger logging.Logger
}

type Options struct {
	// CheckInterval is the re-check period, scheduler.DefaultInterval when zero.
	CheckInterval   time.Duration
	TimeCapsuleMode bool
}

// NewEntry is the user input for SaveEntry.
type NewEntry struct {
	Title    string
	Mood     models.Mood
	Audio    models.AudioBlob
	UnlockAt time.Time
}

type Session struct {
	userID string
	email  string

	clock    timex.Clock
	logger   logging.Logger
	blobs    *blobstore.Sealed
	driver   *scheduler.Driver
	dispatch *dispatcher
	runCtx   context.Context

	// lifecycle serialises driver restarts with Close. Lock order is
	// lifecycle before mu.
	lifecycle sync.Mutex

	mu       sync.Mutex
	closed   bool
	policy   unlock.Policy
	store    *entries.Store
	detector *unlock.Detector
	inbox    *Inbox
	listener Listener
}

// Open starts a session for an authenticated identity. The driver runs until
// Close or until ctx is cancelled.
func Open(ctx context.Context, id *models.Identity, deps Deps, opts Options) (*Session, error) {
	if id == nil || id.UserID == "" {
		return nil, fmt.Errorf("%w: no identity", common.ErrorUnauthorized)
	}
	if len(id.MasterKey) == 0 {
		return nil, fmt.Errorf("%w: identity has no master key", common.ErrorInternal)
	}
	if deps.Clock == nil {
		deps.Clock = timex.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	if deps.Blobs == nil {
		deps.Blobs = blobstore.NewMemoryStore()
	}

	s := &Session{
		userID:   id.UserID,
		email:    id.Email,
		clock:    deps.Clock,
		logger:   deps.Logger.With("user_id", id.UserID),
		blobs:    blobstore.NewSealed(deps.Blobs, id.MasterKey),
		dispatch: &dispatcher{},
		runCtx:   ctx,
		policy:   unlock.Policy{TimeCapsule: opts.TimeCapsuleMode},
		store:    entries.NewStore(id.UserID, deps.Clock),
		detector: unlock.NewDetector(),
		inbox:    NewInbox(),
	}
	s.driver = scheduler.NewDriver("unlock-recheck", opts.CheckInterval, s.Recheck, s.logger)

	if err := s.Recheck(ctx); err != nil {
		return nil, err
	}
	s.driver.Start(ctx)

	s.logger.Info(ctx, "session opened", "time_capsule", opts.TimeCapsuleMode, "interval", s.driver.Interval())
	return s, nil
}

func (s *Session) UserID() string { return s.userID }
func (s *Session) Email() string  { return s.email }

// SaveEntry stores the audio and creates a locked entry. Nothing is created
// when the audio cannot be stored, and the audio is removed again when the
// entry is rejected.
func (s *Session) SaveEntry(ctx context.Context, in NewEntry) (models.Entry, error) {
	if err := entries.ValidateDraft(in.Title, in.Mood, in.UnlockAt, s.clock.Now()); err != nil {
		return models.Entry{}, err
	}
	if err := audio.Validate(in.Audio); err != nil {
		return models.Entry{}, err
	}
	if s.isClosed() {
		return models.Entry{}, ErrClosed
	}

	ref := models.AudioRef{
		Key:         blobstore.NewKey(s.userID, s.clock.Now()),
		ContentType: in.Audio.ContentType,
		Size:        int64(len(in.Audio.Data)),
	}
	if err := s.blobs.Put(ctx, ref.Key, in.Audio.Data); err != nil {
		s.logger.Error(ctx, "store audio failed", "error", err)
		return models.Entry{}, fmt.Errorf("%w: store audio: %v", common.ErrorInternal, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.discardBlob(ctx, ref.Key)
		return models.Entry{}, ErrClosed
	}
	e, err := s.store.Create(in.Title, in.Mood, ref, in.UnlockAt)
	if err != nil {
		s.mu.Unlock()
		s.discardBlob(ctx, ref.Key)
		return models.Entry{}, err
	}
	s.passLocked(ctx)
	s.mu.Unlock()

	s.logger.Info(ctx, "entry saved", "entry_id", e.ID, "unlock_at", e.UnlockAt)
	return e, nil
}

// ImportedEntry is an entry recorded before the session opened.
type ImportedEntry struct {
	NewEntry
	CreatedAt time.Time
}

// ImportEntry stores the audio and adds an entry with its original creation
// time. The first pass after import records its state silently, so an entry
// that is already unlocked is not announced.
func (s *Session) ImportEntry(ctx context.Context, in ImportedEntry) (models.Entry, error) {
	if err := audio.Validate(in.Audio); err != nil {
		return models.Entry{}, err
	}
	if s.isClosed() {
		return models.Entry{}, ErrClosed
	}

	ref := models.AudioRef{
		Key:         blobstore.NewKey(s.userID, in.CreatedAt),
		ContentType: in.Audio.ContentType,
		Size:        int64(len(in.Audio.Data)),
	}
	if err := s.blobs.Put(ctx, ref.Key, in.Audio.Data); err != nil {
		return models.Entry{}, fmt.Errorf("%w: store audio: %v", common.ErrorInternal, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.discardBlob(ctx, ref.Key)
		return models.Entry{}, ErrClosed
	}
	e, err := s.store.Import(models.Entry{
		Title:     in.Title,
		Mood:      in.Mood,
		Audio:     ref,
		CreatedAt: in.CreatedAt,
		UnlockAt:  in.UnlockAt,
	})
	if err != nil {
		s.discardBlob(ctx, ref.Key)
		return models.Entry{}, err
	}
	s.passLocked(ctx)
	return e, nil
}

func (s *Session) discardBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "discard audio failed", "key", key, "error", err)
	}
}

// SetReflection stores the user's reflection on an unlocked entry.
func (s *Session) SetReflection(ctx context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.store.SetReflection(id, text, s.policy); err != nil {
		return err
	}
	s.logger.Debug(ctx, "reflection saved", "entry_id", id)
	return nil
}

// SetTimeCapsuleMode switches the policy for every entry, re-evaluates
// immediately and restarts the periodic re-check.
func (s *Session) SetTimeCapsuleMode(ctx context.Context, on bool) error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.policy.TimeCapsule = on
	s.passLocked(ctx)
	s.mu.Unlock()

	s.driver.Restart(s.runCtx)
	s.logger.Info(ctx, "time capsule mode changed", "on", on)
	return nil
}

func (s *Session) TimeCapsuleMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.TimeCapsule
}

// Entries evaluates every entry now, newest first.
func (s *Session) Entries() []unlock.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluateLocked()
}

func (s *Session) evaluateLocked() []unlock.Status {
	all := s.store.All()
	slices.SortFunc(all, func(a, b models.Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return unlock.Evaluate(all, s.clock.Now(), s.policy)
}

// Entry evaluates one entry now.
func (s *Session) Entry(id string) (unlock.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.store.Get(id)
	if err != nil {
		return unlock.Status{}, err
	}
	return unlock.Evaluate([]models.Entry{e}, s.clock.Now(), s.policy)[0], nil
}

func (s *Session) Timeline() []timeline.Group {
	return timeline.GroupByMonth(s.Entries())
}

// Audio returns the recording of an unlocked entry. Locked entries fail with
// common.ErrorLocked.
func (s *Session) Audio(ctx context.Context, id string) (models.AudioBlob, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.AudioBlob{}, ErrClosed
	}
	e, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return models.AudioBlob{}, err
	}
	if !unlock.IsUnlocked(e, s.clock.Now(), s.policy) {
		s.mu.Unlock()
		return models.AudioBlob{}, fmt.Errorf("%w: %q unlocks in %s", common.ErrorLocked, e.Title,
			unlock.Remaining(e, s.clock.Now(), s.policy).Round(time.Second))
	}
	s.mu.Unlock()

	data, err := s.blobs.Get(ctx, e.Audio.Key)
	if errors.Is(err, blobstore.ErrKeyWiped) {
		return models.AudioBlob{}, ErrClosed
	}
	if err != nil {
		return models.AudioBlob{}, fmt.Errorf("load audio %s: %w", id, err)
	}
	return models.AudioBlob{Data: data, ContentType: e.Audio.ContentType, Size: int64(len(data))}, nil
}

// Recheck runs one evaluation and detection pass. It is the driver's task and
// does nothing once the session is closed.
func (s *Session) Recheck(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.passLocked(ctx)
	s.mu.Unlock()
	return nil
}

// passLocked evaluates, detects crossings, queues them in the inbox and posts
// the batch to the listener. Posting under mu keeps batches in pass order.
func (s *Session) passLocked(ctx context.Context) {
	crossed := s.detector.Observe(s.evaluateLocked())
	if len(crossed) == 0 {
		return
	}
	s.inbox.Add(crossed)
	s.logger.Info(ctx, "entries unlocked", "count", len(crossed))
	s.dispatch.post(Notification{NewlyUnlocked: crossed}, s.listener)
}

// Notifications returns the pending notification, if any.
func (s *Session) Notifications() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inbox.Pending()
}

// Dismiss clears the pending notification. Entry state is untouched.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbox.Clear()
}

// OnUnlock registers the listener for new batches, replacing any previous one.
// Batches are delivered in order on a goroutine owned by the session, never
// on the caller's or the re-check's, so the listener may call back into the
// session, Close included.
func (s *Session) OnUnlock(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops the re-check and wipes the master key. It is safe to call more
// than once.
func (s *Session) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.listener = nil
	s.mu.Unlock()

	s.dispatch.stop()
	s.driver.Stop()
	s.blobs.Wipe()

	s.logger.Info(context.Background(), "session closed")
}
