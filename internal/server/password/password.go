// Package password implements the credential hasher: Argon2id key
// derivation with an explicit salt, so that (hash, salt) can be stored and
// replaced as a pair.
package password

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/accountd/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates stored hashes, since the
// parameters are not encoded alongside the hash.
const (
	timeCost    = 1
	memoryKiB   = 64 * 1024
	parallelism = 4
	keyLength   = 32
	saltLength  = 32
)

// NewSalt returns a fresh random salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltLength)
}

// HashWithSalt derives the credential hash for password using the given salt.
func HashWithSalt(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, timeCost, memoryKiB, parallelism, keyLength)
}

// Hash derives a credential from password using a fresh random salt and
// returns both parts.
func Hash(password []byte) (hash []byte, salt []byte) {
	salt = NewSalt()
	return HashWithSalt(password, salt), salt
}

// Verify reports whether candidate matches the stored (hash, salt) pair.
// The comparison is constant-time.
func Verify(hash []byte, salt []byte, candidate []byte) bool {
	derived := HashWithSalt(candidate, salt)
	return subtle.ConstantTimeCompare(hash, derived) == 1
}
