// Package sessions declares the server-side repository contract for
// refresh-token sessions. The store holds at most one session per user id.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// Repository defines operations for creating, retrieving, and revoking the
// per-user refresh-token session.
type Repository interface {
	// Create stores a new session for userID with an expiry of now+validity.
	// Callers are expected to Delete any prior session first; Create does
	// not upsert.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Get returns the current session for userID.
	// Implementations return common.ErrorNotFound when no session exists.
	Get(ctx context.Context, userID string) (*models.Session, error)

	// Delete removes the session for userID. Deleting a non-existent
	// session is not an error.
	Delete(ctx context.Context, userID string) error
}
