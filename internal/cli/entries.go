package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/audio"
	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/filex"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/session"
	"github.com/dmitrijs2005/echoverse/internal/timeline"
	"github.com/dmitrijs2005/echoverse/internal/unlock"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Record captures a clip from the microphone and saves it as an entry.
func (a *App) Record(ctx context.Context) error {
	fmt.Fprintf(a.out, "Recording (max %s)...\n", audio.MaxDuration)
	blob, err := a.capturer.Capture(ctx)
	if err != nil {
		return err
	}
	return a.createEntry(ctx, blob)
}

// Upload reads an audio file and saves it as an entry.
func (a *App) Upload(ctx context.Context, path string) error {
	if path == "" {
		var err error
		path, err = getSimpleText(a.reader, "Path to audio file", a.out)
		if err != nil {
			return err
		}
	}
	blob, err := audio.ReadUploadedFile(path)
	if err != nil {
		return err
	}
	return a.createEntry(ctx, blob)
}

func (a *App) createEntry(ctx context.Context, blob models.AudioBlob) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}

	moodText, err := getSimpleText(a.reader, fmt.Sprintf("Mood %s [%s]", moodChoices(), models.DefaultMood.Label()), a.out)
	if err != nil {
		return err
	}
	mood := models.DefaultMood
	if moodText != "" {
		m, ok := models.ParseMood(moodText)
		if !ok {
			return fmt.Errorf("%w: unknown mood %q", common.ErrorValidation, moodText)
		}
		mood = m
	}

	when, err := getSimpleText(a.reader, "Unlock at (YYYY-MM-DD [HH:MM], or in 90s, 2h, 30d)", a.out)
	if err != nil {
		return err
	}
	now := a.clock.Now()
	unlockAt, err := ParseUnlockAt(when, now, time.Local)
	if err != nil {
		return err
	}

	e, err := a.session.SaveEntry(ctx, session.NewEntry{
		Title:    title,
		Mood:     mood,
		Audio:    blob,
		UnlockAt: unlockAt,
	})
	if err != nil {
		return err
	}

	st, err := a.session.Entry(e.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s %q [%s], unlocks %s (in %s)\n",
		e.Mood, e.Title, shortID(e.ID), formatTime(st.UnlockMoment),
		HumanDuration(st.UnlockMoment.Sub(a.clock.Now())))
	return nil
}

func moodChoices() string {
	parts := make([]string, 0, len(models.Moods()))
	for _, m := range models.Moods() {
		parts = append(parts, m.String()+" "+m.Label())
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// List renders the timeline grouped by month.
func (a *App) List(ctx context.Context) error {
	groups := a.session.Timeline()
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No entries yet. Use 'record' or 'upload <path>'.")
		return nil
	}
	renderTimeline(a.out, groups, a.clock.Now(), a.session.TimeCapsuleMode())
	return nil
}

func renderTimeline(w io.Writer, groups []timeline.Group, now time.Time, capsule bool) {
	bold := color.New(color.Bold)
	if capsule {
		fmt.Fprintln(w, color.CyanString("⏳ Time capsule mode: every entry opens one year after it was recorded."))
	}

	for _, g := range groups {
		fmt.Fprintln(w, bold.Sprint(g.Name))

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 40
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("MOOD"), bold.Sprint("TITLE"), bold.Sprint("RECORDED"), bold.Sprint("STATUS"), bold.Sprint("REFLECTION"))
		for _, st := range g.Entries {
			tbl.AddRow(shortID(st.Entry.ID), st.Entry.Mood, st.Entry.Title,
				formatTime(st.Entry.CreatedAt), statusText(st, now), st.Entry.Reflection)
		}
		fmt.Fprintln(w, tbl)
		fmt.Fprintln(w)
	}
}

func statusText(st unlock.Status, now time.Time) string {
	if st.Unlocked {
		return color.GreenString("🔓 unlocked")
	}
	return color.YellowString("🔒 %s", HumanDuration(st.UnlockMoment.Sub(now)))
}

// resolveID accepts a full id or a unique prefix of one.
func (a *App) resolveID(prefix string) (string, error) {
	var match string
	for _, st := range a.session.Entries() {
		id := st.Entry.ID
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: id %q is ambiguous", common.ErrorValidation, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: entry %s", common.ErrorNotFound, prefix)
	}
	return match, nil
}

// Play writes an unlocked recording to the playback directory.
func (a *App) Play(ctx context.Context, prefix string) error {
	id, err := a.resolveID(prefix)
	if err != nil {
		return err
	}
	blob, err := a.session.Audio(ctx, id)
	if err != nil {
		return err
	}

	path, err := filex.WriteFile(a.config.PlaybackDir, id+audio.Extension(blob.ContentType), blob.Data)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "▶ %s (%d bytes) written to %s\n", blob.ContentType, len(blob.Data), path)

	if st, err := a.session.Entry(id); err == nil && st.Entry.Reflection != "" {
		fmt.Fprintf(a.out, "💬 %s\n", st.Entry.Reflection)
	}
	return nil
}

// Reflect lets the user write down thoughts on an unlocked entry.
func (a *App) Reflect(ctx context.Context, prefix string) error {
	id, err := a.resolveID(prefix)
	if err != nil {
		return err
	}
	st, err := a.session.Entry(id)
	if err != nil {
		return err
	}
	if !st.Unlocked {
		return fmt.Errorf("%w: %q unlocks in %s", common.ErrorLocked, st.Entry.Title,
			HumanDuration(st.UnlockMoment.Sub(a.clock.Now())))
	}

	text, err := getMultiline(a.reader, fmt.Sprintf("Reflection on %q", st.Entry.Title), a.out)
	if err != nil {
		return err
	}
	if err := a.session.SetReflection(ctx, id, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Reflection saved.")
	return nil
}
