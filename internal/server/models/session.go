package models

import "time"

// Session is the persisted record of a user's current refresh token.
// At most one live session exists per user id.
type Session struct {
	UserID    string
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
