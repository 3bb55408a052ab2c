package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/session"
	"github.com/fatih/color"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func demoHint() string {
	return common.DemoEmail + " / " + common.DemoPassword
}

// Register prompts for an email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.auth.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account %s created, you can login now.\n", u.Email)
	return nil
}

// Login authenticates and opens a journal session. A previous session is
// closed first.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Authenticate(ctx, email, string(password))
	if err != nil {
		a.logger.Info(ctx, "login unsuccessful", "error", err)
		return err
	}
	defer common.WipeByteArray(id.MasterKey)

	a.closeSession()

	s, err := session.Open(ctx, id, session.Deps{
		Clock:  a.clock,
		Blobs:  a.blobs,
		Logger: a.logger,
	}, session.Options{
		CheckInterval:   a.config.CheckInterval,
		TimeCapsuleMode: a.config.TimeCapsuleMode,
	})
	if err != nil {
		return err
	}
	s.OnUnlock(a.notify)
	a.session = s

	if a.config.SeedDemo && id.Email == common.DemoEmail {
		if err := a.seedDemoEntries(ctx); err != nil {
			a.logger.Warn(ctx, "demo entries not seeded", "error", err)
		}
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", id.Email)
	return nil
}

// Logout closes the session. Entries live only as long as their session.
func (a *App) Logout(ctx context.Context) error {
	a.closeSession()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// notify is the session's unlock listener. It runs on the re-check goroutine.
func (a *App) notify(n session.Notification) {
	titles := make([]string, len(n.NewlyUnlocked))
	for i, e := range n.NewlyUnlocked {
		titles[i] = fmt.Sprintf("%s %q", e.Mood, e.Title)
	}
	noun := "entries"
	if len(titles) == 1 {
		noun = "entry"
	}
	fmt.Fprintf(a.out, "\n%s %d %s unlocked: %s (type 'inbox' or 'list')\n",
		color.GreenString("🔓"), len(titles), noun, strings.Join(titles, ", "))
}
