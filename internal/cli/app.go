package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/echoverse/internal/audio"
	"github.com/dmitrijs2005/echoverse/internal/blobstore"
	"github.com/dmitrijs2005/echoverse/internal/config"
	"github.com/dmitrijs2005/echoverse/internal/logging"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/session"
	"github.com/dmitrijs2005/echoverse/internal/timex"
	"github.com/dmitrijs2005/echoverse/internal/users"
	"github.com/fatih/color"
)

// authService is the part of users.Service the shell needs.
type authService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.Identity, error)
}

// syncWriter serialises writes from the REPL and the unlock listener.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	auth     authService
	blobs    blobstore.Store
	clock    timex.Clock
	capturer audio.Capturer
	reader   *bufio.Reader
	out      io.Writer
	closers  []func() error

	session *session.Session
}

// NewApp wires the shell from configuration: the users repository, the
// audio backend and logging.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	repo, closeRepo, err := users.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("users db init error: %w", err)
	}

	clock := timex.SystemClock{}
	us := users.NewService(repo, c, clock, logger)
	if c.SeedDemo {
		if err := us.SeedDemo(ctx); err != nil {
			_ = closeRepo()
			return nil, fmt.Errorf("seed demo account: %w", err)
		}
	}

	blobs, err := blobstore.Open(ctx, c)
	if err != nil {
		_ = closeRepo()
		return nil, fmt.Errorf("audio storage init error: %w", err)
	}

	return &App{
		config:   c,
		logger:   logger,
		auth:     us,
		blobs:    blobs,
		clock:    clock,
		capturer: audio.NoMicrophone{},
		reader:   bufio.NewReader(os.Stdin),
		out:      &syncWriter{w: color.Output},
		closers:  []func() error{closeRepo},
	}, nil
}

// Run starts the REPL and returns when the user quits, stdin ends or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, color.New(color.Bold).Sprint("Welcome to EchoVerse (type 'help' for commands)"))
	if a.config.SeedDemo {
		fmt.Fprintf(a.out, "Demo account: %s\n", demoHint())
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// Close ends the active session and releases storage.
func (a *App) Close() {
	a.closeSession()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) closeSession() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	s := a.session.Email()
	if a.session.TimeCapsuleMode() {
		s += " capsule"
	}
	if n, ok := a.session.Notifications(); ok {
		s += fmt.Sprintf(" %d new", len(n.NewlyUnlocked))
	}
	return fmt.Sprintf("(%s)", s)
}
