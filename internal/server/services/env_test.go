package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repotest"
	"github.com/stretchr/testify/require"
)

var testKey = bytes.Repeat([]byte{0x07}, cryptox.KeySize)

type testEnv struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	cipher *cryptox.Cipher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	c, err := cryptox.NewCipher(testKey)
	require.NoError(t, err)
	return &testEnv{
		db:     repotest.OpenSQLite(t),
		repos:  &repomanager.SQLiteRepositoryManager{},
		cipher: c,
	}
}

// stepClock returns a clock that advances one second per call.
func stepClock() clock {
	t := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// seqIDs returns ids "<prefix>-001", "<prefix>-002", ...
func seqIDs(prefix string) idgen {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}

func (e *testEnv) vault() *VaultService {
	s := NewVaultService(e.db, e.repos, e.cipher, logging.Nop{})
	s.now = stepClock()
	return s
}

func (e *testEnv) folders() *FolderService {
	s := NewFolderService(e.db, e.repos, logging.Nop{})
	s.now = stepClock()
	s.newID = seqIDs("folder")
	return s
}

func (e *testEnv) rawSecret(t *testing.T, id string) string {
	t.Helper()
	var s string
	require.NoError(t, e.db.QueryRow(`SELECT secret FROM entries WHERE id = ?`, id).Scan(&s))
	return s
}

func (e *testEnv) insertLegacy(t *testing.T, id, owner, secret string, deleted bool) {
	t.Helper()
	_, err := e.db.Exec(`INSERT INTO entries (id, owner_id, title, secret, deleted, created_at, updated_at)
		VALUES (?, ?, 'legacy', ?, ?, '2020-01-01T00:00:00.000000000Z', '2020-01-01T00:00:00.000000000Z')`,
		id, owner, secret, deleted)
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }
