// Package models defines the EchoVerse data model shared by the store, the
// unlock logic and the presentation layer.
package models

import "time"

// Entry is a single audio diary record with a scheduled unlock moment.
//
// Entries carry no unlocked flag: whether an entry is playable is always
// derived by the unlock package from CreatedAt, UnlockAt, the current time and
// the session policy.
type Entry struct {
	ID         string
	OwnerID    string
	Title      string
	Mood       Mood
	Audio      AudioRef
	CreatedAt  time.Time
	UnlockAt   time.Time
	Reflection string
}

// AudioRef points at a stored audio payload. Key is opaque to everything but
// the blob store that issued it.
type AudioRef struct {
	Key         string
	ContentType string
	Size        int64
}

func (r AudioRef) IsZero() bool {
	return r.Key == ""
}

// AudioBlob is a finite audio payload produced by recording or upload.
type AudioBlob struct {
	Data        []byte
	ContentType string
	Size        int64
}
