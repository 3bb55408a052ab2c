// Package unlock decides whether diary entries are playable.
//
// Evaluation is a pure function of (entries, now, policy). Nothing here
// stores an unlocked flag; every observation recomputes it.
package unlock

import (
	"time"

	"github.com/dmitrijs2005/echoverse/internal/models"
)

// CapsuleDelay is the time capsule lock period. It is a fixed 365 days,
// leap years are deliberately not taken into account.
const CapsuleDelay = 365 * 24 * time.Hour

// Policy is the session-wide unlock configuration.
type Policy struct {
	// TimeCapsule hides every entry until CreatedAt+CapsuleDelay, ignoring
	// the entry's own UnlockAt.
	TimeCapsule bool
}

// Status is the evaluation result for one entry.
type Status struct {
	Entry        models.Entry
	Unlocked     bool
	UnlockMoment time.Time
}

// EffectiveUnlockMoment returns the instant that gates playback of e under p.
func EffectiveUnlockMoment(e models.Entry, p Policy) time.Time {
	if p.TimeCapsule {
		return e.CreatedAt.Add(CapsuleDelay)
	}
	return e.UnlockAt
}

// IsUnlocked reports whether e is playable at now. The boundary is inclusive.
func IsUnlocked(e models.Entry, now time.Time, p Policy) bool {
	return !now.Before(EffectiveUnlockMoment(e, p))
}

// Remaining is the time left until e unlocks, zero once it is unlocked.
func Remaining(e models.Entry, now time.Time, p Policy) time.Duration {
	d := EffectiveUnlockMoment(e, p).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Evaluate computes the status of every entry, in input order.
func Evaluate(entries []models.Entry, now time.Time, p Policy) []Status {
	out := make([]Status, len(entries))
	for i, e := range entries {
		moment := EffectiveUnlockMoment(e, p)
		out[i] = Status{
			Entry:        e,
			Unlocked:     !now.Before(moment),
			UnlockMoment: moment,
		}
	}
	return out
}
