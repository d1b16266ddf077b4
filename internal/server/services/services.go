// Package services implements the vault's business operations on top of the
// repositories: owner-scoped entry and folder management, account handling,
// backups and the legacy resealing job.
package services

import (
	"time"

	"github.com/google/uuid"
)

// Sealer transforms secrets between their plaintext and at-rest forms.
// *cryptox.Cipher implements it.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// clock and idgen are overridden in tests.
type (
	clock func() time.Time
	idgen func() string
)

func utcNow() time.Time { return time.Now().UTC() }

func newUUID() string { return uuid.NewString() }
