// Package models contains the persistent data structures shared by
// repositories and services on the server side.
package models

import "time"

// Provider values for User.Provider.
const (
	ProviderLocal  = "local"
	ProviderSocial = "social"
)

// User is the persisted account record. Hash and Salt together form the
// credential; they are always replaced as a pair.
type User struct {
	ID        string
	Email     string
	Name      string
	Hash      []byte
	Salt      []byte
	Provider  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
