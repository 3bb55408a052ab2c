// Package cli implements the interactive EchoVerse shell: a small REPL that
// registers and signs users in, records or uploads entries, renders the
// timeline and prints unlock notifications as they happen.
package cli
