// Package users owns accounts: persistence in memory, SQLite or PostgreSQL,
// and the Service that registers and authenticates people.
package users

import (
	"context"

	"github.com/dmitrijs2005/echoverse/internal/models"
)

// Repository persists accounts keyed by a unique email.
type Repository interface {
	// Create fails with common.ErrorDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail fails with common.ErrorNotFound for an unknown email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
