package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Capsule shows or switches time capsule mode.
func (a *App) Capsule(ctx context.Context, arg string) error {
	var on bool
	switch arg {
	case "":
		state := "off"
		if a.session.TimeCapsuleMode() {
			state = "on"
		}
		fmt.Fprintf(a.out, "Time capsule mode is %s. Usage: capsule on|off\n", state)
		return nil
	case "on":
		on = true
	case "off":
		on = false
	default:
		fmt.Fprintln(a.out, "Usage: capsule on|off")
		return nil
	}

	if err := a.session.SetTimeCapsuleMode(ctx, on); err != nil {
		return err
	}
	if on {
		fmt.Fprintln(a.out, "⏳ Time capsule mode on: entries open one year after they were recorded.")
	} else {
		fmt.Fprintln(a.out, "Time capsule mode off: entries open on their own dates.")
	}
	return nil
}

// Inbox prints the pending unlock notification.
func (a *App) Inbox(ctx context.Context) error {
	n, ok := a.session.Notifications()
	if !ok {
		fmt.Fprintln(a.out, "No new unlocks.")
		return nil
	}
	fmt.Fprintln(a.out, color.GreenString("🔓 Newly unlocked:"))
	for _, e := range n.NewlyUnlocked {
		fmt.Fprintf(a.out, "  %s %s %q\n", shortID(e.ID), e.Mood, e.Title)
	}
	fmt.Fprintln(a.out, "Type 'dismiss' to clear.")
	return nil
}

func (a *App) Dismiss(ctx context.Context) error {
	a.session.Dismiss()
	return nil
}

// Moods prints the available moods.
func (a *App) Moods(ctx context.Context) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	bold := color.New(color.Bold)
	tbl.AddRow(bold.Sprint("MOOD"), bold.Sprint("NAME"))
	for _, m := range models.Moods() {
		name := m.Label()
		if m == models.DefaultMood {
			name += " (default)"
		}
		tbl.AddRow(m, name)
	}
	fmt.Fprintln(a.out, tbl)
	return nil
}
