package session

import "github.com/dmitrijs2005/echoverse/internal/models"

// Notification announces entries that became playable.
type Notification struct {
	NewlyUnlocked []models.Entry
}

// Listener receives every new batch of unlocked entries exactly once.
type Listener func(Notification)

// Inbox holds the notification waiting for the user. Batches arriving before
// a dismiss are merged. Not safe for concurrent use; the session guards it.
type Inbox struct {
	pending []models.Entry
	index   map[string]int
}

func NewInbox() *Inbox {
	return &Inbox{index: make(map[string]int)}
}

// Add merges a batch into the pending notification. An entry already
// pending is replaced by its newer copy.
func (in *Inbox) Add(batch []models.Entry) {
	for _, e := range batch {
		if i, ok := in.index[e.ID]; ok {
			in.pending[i] = e
			continue
		}
		in.index[e.ID] = len(in.pending)
		in.pending = append(in.pending, e)
	}
}

// Pending returns a copy of the current notification, if any.
func (in *Inbox) Pending() (Notification, bool) {
	if len(in.pending) == 0 {
		return Notification{}, false
	}
	out := make([]models.Entry, len(in.pending))
	copy(out, in.pending)
	return Notification{NewlyUnlocked: out}, true
}

// Clear drops the pending notification.
func (in *Inbox) Clear() {
	in.pending = nil
	clear(in.index)
}
