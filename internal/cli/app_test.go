package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/audio"
	"github.com/dmitrijs2005/echoverse/internal/blobstore"
	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/config"
	"github.com/dmitrijs2005/echoverse/internal/logging"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/session"
	"github.com/dmitrijs2005/echoverse/internal/timex"
	"github.com/dmitrijs2005/echoverse/internal/users"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)

// lockedBuffer lets tests read output written by the unlock listener.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testApp struct {
	app   *App
	out   *lockedBuffer
	clock *timex.FakeClock
}

func newTestApp(t *testing.T, password string) testApp {
	t.Helper()
	color.NoColor = true

	oldPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { getPassword = oldPw })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CheckInterval = time.Hour
	cfg.PlaybackDir = filepath.Join(t.TempDir(), "playback")

	clock := timex.NewFakeClock(t0)
	logger := logging.NewNopLogger()
	out := &lockedBuffer{}

	app := &App{
		config:   cfg,
		logger:   logger,
		auth:     users.NewService(users.NewMemoryRepository(), cfg, clock, logger),
		blobs:    blobstore.NewMemoryStore(),
		clock:    clock,
		capturer: audio.NoMicrophone{},
		reader:   bufio.NewReader(strings.NewReader("")),
		out:      &syncWriter{w: out},
	}
	t.Cleanup(app.Close)
	return testApp{app: app, out: out, clock: clock}
}

func (ta testApp) answer(lines ...string) {
	ta.app.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func (ta testApp) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	ta.answer("alice@example.com")
	require.NoError(t, ta.app.Register(ctx))
	ta.answer("alice@example.com")
	require.NoError(t, ta.app.Login(ctx))
	require.True(t, ta.app.isLoggedIn())
}

func writeWav(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(p, []byte("RIFF\x24\x00\x00\x00WAVEfmt "), 0o600))
	return p
}

func onlyEntryID(t *testing.T, a *App) string {
	t.Helper()
	list := a.session.Entries()
	require.Len(t, list, 1)
	return list[0].Entry.ID
}

func TestApp_LoginWrongPassword(t *testing.T) {
	ta := newTestApp(t, "pw")
	ctx := context.Background()

	ta.answer("alice@example.com")
	require.NoError(t, ta.app.Register(ctx))

	getPassword = func(io.Writer) ([]byte, error) { return []byte("nope"), nil }
	ta.answer("alice@example.com")
	err := ta.app.Login(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.False(t, ta.app.isLoggedIn())
}

func TestApp_RegisterDuplicate(t *testing.T) {
	ta := newTestApp(t, "pw")
	ctx := context.Background()

	ta.answer("alice@example.com")
	require.NoError(t, ta.app.Register(ctx))
	ta.answer("alice@example.com")
	assert.ErrorIs(t, ta.app.Register(ctx), common.ErrorDuplicateEmail)
}

func TestApp_UploadListPlayReflect(t *testing.T) {
	ta := newTestApp(t, "pw")
	ctx := context.Background()
	ta.login(t)

	ta.answer("First light", "dreamy", "10s")
	require.NoError(t, ta.app.Upload(ctx, writeWav(t)))
	assert.Contains(t, ta.out.String(), `Saved 💭 "First light"`)
	id := onlyEntryID(t, ta.app)

	require.NoError(t, ta.app.List(ctx))
	assert.Contains(t, ta.out.String(), "January 2024")
	assert.Contains(t, ta.out.String(), "🔒 10s")

	err := ta.app.Play(ctx, id[:8])
	assert.ErrorIs(t, err, common.ErrorLocked)
	err = ta.app.Reflect(ctx, id)
	assert.ErrorIs(t, err, common.ErrorLocked)

	ta.clock.Advance(10 * time.Second)
	require.NoError(t, ta.app.session.Recheck(ctx))
	require.Eventually(t, func() bool {
		return strings.Contains(ta.out.String(), `1 entry unlocked: 💭 "First light"`)
	}, time.Second, time.Millisecond)

	require.NoError(t, ta.app.Play(ctx, id[:8]))
	data, err := os.ReadFile(filepath.Join(ta.app.config.PlaybackDir, id+".wav"))
	require.NoError(t, err)
	assert.Equal(t, "RIFF\x24\x00\x00\x00WAVEfmt ", string(data))

	ta.answer("It was a good day", "")
	require.NoError(t, ta.app.Reflect(ctx, id))
	require.NoError(t, ta.app.List(ctx))
	assert.Contains(t, ta.out.String(), "It was a good day")

	require.NoError(t, ta.app.Inbox(ctx))
	assert.Contains(t, ta.out.String(), "Newly unlocked:")
	require.NoError(t, ta.app.Dismiss(ctx))
	require.NoError(t, ta.app.Inbox(ctx))
	assert.Contains(t, ta.out.String(), "No new unlocks.")
}

func TestApp_DemoLoginSeedsEntries(t *testing.T) {
	ta := newTestApp(t, common.DemoPassword)
	ctx := context.Background()
	ta.app.config.SeedDemo = true
	us := ta.app.auth.(*users.Service)
	require.NoError(t, us.SeedDemo(ctx))

	ta.answer(common.DemoEmail)
	require.NoError(t, ta.app.Login(ctx))

	list := ta.app.session.Entries()
	require.Len(t, list, 3)
	byTitle := map[string]bool{}
	for _, st := range list {
		byTitle[st.Entry.Title] = st.Unlocked
	}
	assert.Equal(t, map[string]bool{
		"New Year Resolutions": true,
		"Secret Dreams":        false,
		"Today's Breakthrough": false,
	}, byTitle)
	_, ok := ta.app.session.Notifications()
	assert.False(t, ok, "entries open before login are not announced")

	ta.clock.Advance(5 * time.Second)
	require.NoError(t, ta.app.session.Recheck(ctx))
	require.Eventually(t, func() bool {
		return strings.Contains(ta.out.String(), `1 entry unlocked: 🎯 "Today's Breakthrough"`)
	}, time.Second, time.Millisecond)

	require.NoError(t, ta.app.Logout(ctx))
	ta.answer("alice@example.com")
	require.NoError(t, ta.app.Register(ctx))
	ta.answer("alice@example.com")
	require.NoError(t, ta.app.Login(ctx))
	assert.Empty(t, ta.app.session.Entries(), "only the demo account gets samples")
}

func TestApp_UploadRejectsBadInput(t *testing.T) {
	ta := newTestApp(t, "pw")
	ctx := context.Background()
	ta.login(t)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o600))
	assert.ErrorIs(t, ta.app.Upload(ctx, txt), common.ErrorWrongType)

	ta.answer("Title", "grumpy", "10s")
	assert.ErrorIs(t, ta.app.Upload(ctx, writeWav(t)), common.ErrorValidation)

	ta.answer("Title", "", "yesterday")
	assert.ErrorIs(t, ta.app.Upload(ctx, writeWav(t)), common.ErrorValidation)

	assert.Empty(t, ta.app.session.Entries())
}

func TestApp_RecordWithoutMicrophone(t *testing.T) {
	ta := newTestApp(t, "pw")
	ta.login(t)

	assert.ErrorIs(t, ta.app.Record(context.Background()), common.ErrorPermission)
}

func TestApp_Capsule(t *testing.T) {
	ta := newTestApp(t, "pw")
	ctx := context.Background()
	ta.login(t)

	ta.answer("Soon", "", "1s")
	require.NoError(t, ta.app.Upload(ctx, writeWav(t)))
	ta.clock.Advance(time.Second)

	require.NoError(t, ta.app.Capsule(ctx, "on"))
	assert.True(t, ta.app.session.TimeCapsuleMode())
	assert.Contains(t, ta.app.getStatus(), "capsule")

	require.NoError(t, ta.app.List(ctx))
	assert.Contains(t, ta.out.String(), "Time capsule mode")
	assert.Contains(t, ta.out.String(), "🔒 364d")

	require.NoError(t, ta.app.Capsule(ctx, ""))
	assert.Contains(t, ta.out.String(), "Time capsule mode is on")

	require.NoError(t, ta.app.Capsule(ctx, "off"))
	assert.False(t, ta.app.session.TimeCapsuleMode())

	require.NoError(t, ta.app.Capsule(ctx, "sideways"))
	assert.Contains(t, ta.out.String(), "Usage: capsule on|off")
}

func TestApp_ResolveID(t *testing.T) {
	ta := newTestApp(t, "pw")
	ta.login(t)

	_, err := ta.app.resolveID("missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_LogoutEndsSession(t *testing.T) {
	ta := newTestApp(t, "pw")
	ta.login(t)
	s := ta.app.session

	require.NoError(t, ta.app.Logout(context.Background()))
	assert.False(t, ta.app.isLoggedIn())
	assert.Empty(t, ta.app.getStatus())

	_, err := s.SaveEntry(context.Background(), sessionEntryForClosedCheck())
	assert.Error(t, err)
}

func TestApp_REPLSession(t *testing.T) {
	ta := newTestApp(t, "pw")
	wav := writeWav(t)

	ta.answer(
		"register", "bob@example.com",
		"login", "bob@example.com",
		"upload "+wav, "Voice memo", "", "1h",
		"list",
		"moods",
		"logout",
		"exit",
	)
	runREPL(context.Background(), ta.app, ta.app.getStatus, ta.app.reader, ta.app.out)

	out := ta.out.String()
	assert.Contains(t, out, "Account bob@example.com created")
	assert.Contains(t, out, "Welcome, bob@example.com!")
	assert.Contains(t, out, `Saved 😊 "Voice memo"`)
	assert.Contains(t, out, "Voice memo")
	assert.Contains(t, out, "Happy (default)")
	assert.Contains(t, out, "Logged out.")
	assert.NotContains(t, out, "Error:")
}

func sessionEntryForClosedCheck() session.NewEntry {
	return session.NewEntry{
		Title:    "late",
		Mood:     models.DefaultMood,
		Audio:    models.AudioBlob{Data: []byte{1}, ContentType: "audio/wav"},
		UnlockAt: t0.Add(time.Hour),
	}
}
