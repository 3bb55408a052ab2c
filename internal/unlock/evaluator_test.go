package unlock

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func entryAt(id string, created time.Time, unlockIn time.Duration) models.Entry {
	return models.Entry{
		ID:        id,
		Title:     "entry " + id,
		Mood:      models.MoodDreamy,
		Audio:     models.AudioRef{Key: "ref-" + id},
		CreatedAt: created,
		UnlockAt:  created.Add(unlockIn),
	}
}

func TestEffectiveUnlockMoment(t *testing.T) {
	e := entryAt("1", t0, 10*time.Second)

	assert.Equal(t, t0.Add(10*time.Second), EffectiveUnlockMoment(e, Policy{}))
	assert.Equal(t, t0.Add(365*24*time.Hour), EffectiveUnlockMoment(e, Policy{TimeCapsule: true}))
}

func TestCapsuleDelay_IgnoresLeapYears(t *testing.T) {
	leap := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := entryAt("1", leap, time.Hour)

	// 2024 has 366 days, so the capsule opens on the last day of 2024.
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), EffectiveUnlockMoment(e, Policy{TimeCapsule: true}))
}

func TestIsUnlocked_InclusiveBoundary(t *testing.T) {
	e := entryAt("1", t0, 5*time.Second)
	p := Policy{}

	assert.False(t, IsUnlocked(e, t0.Add(4*time.Second), p))
	assert.False(t, IsUnlocked(e, t0.Add(5*time.Second-time.Nanosecond), p))
	assert.True(t, IsUnlocked(e, t0.Add(5*time.Second), p))
	assert.True(t, IsUnlocked(e, t0.Add(time.Hour), p))
}

func TestIsUnlocked_MatchesEffectiveMoment(t *testing.T) {
	entries := []models.Entry{
		entryAt("a", t0, time.Second),
		entryAt("b", t0.Add(-400*24*time.Hour), 24*time.Hour),
		entryAt("c", t0.Add(-30*24*time.Hour), 400*24*time.Hour),
	}
	moments := []time.Time{t0, t0.Add(time.Second), t0.Add(90 * 24 * time.Hour), t0.Add(-time.Hour)}

	for _, p := range []Policy{{}, {TimeCapsule: true}} {
		for _, e := range entries {
			for _, now := range moments {
				want := !now.Before(EffectiveUnlockMoment(e, p))
				assert.Equal(t, want, IsUnlocked(e, now, p), "entry %s now %s policy %+v", e.ID, now, p)
			}
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	entries := []models.Entry{
		entryAt("a", t0, time.Second),
		entryAt("b", t0, time.Hour),
	}
	now := t0.Add(time.Minute)

	first := Evaluate(entries, now, Policy{})
	second := Evaluate(entries, now, Policy{})

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].Entry.ID)
	assert.True(t, first[0].Unlocked)
	assert.False(t, first[1].Unlocked)
	assert.Equal(t, t0.Add(time.Hour), first[1].UnlockMoment)
}

func TestEvaluate_ModeToggleIsRetroactive(t *testing.T) {
	entries := []models.Entry{entryAt("a", t0, 10*time.Second)}
	now := t0.Add(10 * time.Second)

	off := Evaluate(entries, now, Policy{})
	on := Evaluate(entries, now, Policy{TimeCapsule: true})

	assert.True(t, off[0].Unlocked)
	assert.False(t, on[0].Unlocked)
}

func TestEvaluate_CapsuleCanUnlockEarlierThanSchedule(t *testing.T) {
	old := entryAt("a", t0.Add(-366*24*time.Hour), 2*366*24*time.Hour)

	assert.False(t, Evaluate([]models.Entry{old}, t0, Policy{})[0].Unlocked)
	assert.True(t, Evaluate([]models.Entry{old}, t0, Policy{TimeCapsule: true})[0].Unlocked)
}

func TestEvaluate_Empty(t *testing.T) {
	assert.Empty(t, Evaluate(nil, t0, Policy{}))
}

func TestRemaining(t *testing.T) {
	e := entryAt("1", t0, time.Minute)

	assert.Equal(t, time.Minute, Remaining(e, t0, Policy{}))
	assert.Equal(t, time.Duration(0), Remaining(e, t0.Add(2*time.Minute), Policy{}))
	assert.Equal(t, CapsuleDelay, Remaining(e, t0, Policy{TimeCapsule: true}))
}
