package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/credvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewSalt returns a random per-user salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// HashPassword derives an Argon2id hash of password with salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword hashes candidate with salt and compares it to hash in
// constant time.
func VerifyPassword(hash, salt, candidate []byte) bool {
	got := HashPassword(candidate, salt)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(hash, got) == 1
}
