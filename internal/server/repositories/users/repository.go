// Package users declares the server-side repository contract for account
// records in persistent storage.
package users

import (
	"context"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// Repository defines operations for creating, reading, updating, and
// deleting user records.
type Repository interface {
	// Create stores a new user and returns it with the generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by email. Implementations return
	// common.ErrorNotFound when the user is absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Delete removes the user record.
	Delete(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the stored (hash, salt) pair in a single
	// statement; the two columns are never updated separately.
	UpdatePassword(ctx context.Context, id string, hash []byte, salt []byte) error

	// UpdateName changes the display name only.
	UpdateName(ctx context.Context, id string, name string) error

	// UpdateEmail changes the email only.
	UpdateEmail(ctx context.Context, id string, email string) error

	// UpdateAll changes name and email in one statement.
	UpdateAll(ctx context.Context, id string, name string, email string) error
}
