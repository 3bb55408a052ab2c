package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/audio"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/session"
)

const day = 24 * time.Hour

// demoEntries are the sample recordings of the demo account: one open, one
// sealed for most of a year and one that opens a few seconds after login.
func demoEntries(now time.Time) []session.ImportedEntry {
	sample := func(title string, mood models.Mood, created, unlockIn time.Duration) session.ImportedEntry {
		createdAt := now.Add(-created)
		return session.ImportedEntry{
			NewEntry: session.NewEntry{
				Title:    title,
				Mood:     mood,
				Audio:    audio.SilentWAV(2 * time.Second),
				UnlockAt: createdAt.Add(unlockIn),
			},
			CreatedAt: createdAt,
		}
	}
	return []session.ImportedEntry{
		sample("New Year Resolutions", models.MoodHopeful, 200*day, 170*day),
		sample("Secret Dreams", models.MoodDreamy, 30*day, 365*day),
		sample("Today's Breakthrough", models.MoodFocused, 0, 5*time.Second),
	}
}

func (a *App) seedDemoEntries(ctx context.Context) error {
	for _, in := range demoEntries(a.clock.Now()) {
		if _, err := a.session.ImportEntry(ctx, in); err != nil {
			return fmt.Errorf("seed demo entries: %w", err)
		}
	}
	return nil
}
