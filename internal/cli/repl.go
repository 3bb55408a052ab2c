package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Record(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	List(ctx context.Context) error
	Play(ctx context.Context, id string) error
	Reflect(ctx context.Context, id string) error
	Capsule(ctx context.Context, arg string) error
	Inbox(ctx context.Context) error
	Dismiss(ctx context.Context) error
	Moods(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, moods, exit"
	helpLoggedIn  = "Available commands: record, upload <path>, (l)ist, play <id>, reflect <id>, capsule on|off, inbox, dismiss, moods, logout, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is cancelled. Command errors are printed and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "echo %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		if needsSession(cmd) && !a.isLoggedIn() {
			fmt.Fprintln(w, "Please login first.")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "record":
			cmdErr = a.Record(ctx)
		case "upload":
			cmdErr = a.Upload(ctx, arg)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "play":
			cmdErr = withArg(w, "play <id>", arg, func() error { return a.Play(ctx, arg) })
		case "reflect":
			cmdErr = withArg(w, "reflect <id>", arg, func() error { return a.Reflect(ctx, arg) })
		case "capsule":
			cmdErr = a.Capsule(ctx, arg)
		case "inbox":
			cmdErr = a.Inbox(ctx)
		case "dismiss":
			cmdErr = a.Dismiss(ctx)
		case "moods":
			cmdErr = a.Moods(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, color.RedString("Error: %v", cmdErr))
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "logout", "record", "upload", "l", "list", "play", "reflect", "capsule", "inbox", "dismiss":
		return true
	}
	return false
}

func withArg(w io.Writer, usage, arg string, fn func() error) error {
	if arg == "" {
		fmt.Fprintln(w, "Usage:", usage)
		return nil
	}
	return fn()
}
