package models

import "time"

type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// Identity is what a successful authentication hands to a session.
// MasterKey is derived from the password and seals the user's audio; the
// session wipes it on close.
type Identity struct {
	UserID    string
	Email     string
	Token     string
	MasterKey []byte
}
