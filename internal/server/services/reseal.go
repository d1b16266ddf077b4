package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

// DefaultResealBatchSize is the page size used by LegacyResealer.
const DefaultResealBatchSize = 200

// LegacyResealer seals secrets that were stored as plaintext before
// encryption at rest was introduced. Every owner is covered, soft-deleted
// rows included.
type LegacyResealer struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      Sealer
	log         logging.Logger
	batchSize   int
}

func NewLegacyResealer(db *sql.DB, m repomanager.RepositoryManager, cipher Sealer, batchSize int, log logging.Logger) *LegacyResealer {
	if batchSize <= 0 {
		batchSize = DefaultResealBatchSize
	}
	return &LegacyResealer{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		log:         log.With("module", "reseal"),
		batchSize:   batchSize,
	}
}

// Run reseals every legacy secret and returns how many rows changed. Each
// batch is written in its own transaction; a row whose secret changed
// concurrently is skipped.
func (r *LegacyResealer) Run(ctx context.Context) (int, error) {
	var (
		total   int
		afterID string
	)

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch, err := r.repomanager.Entries(r.db).ListBatch(ctx, afterID, r.batchSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}
		afterID = batch[len(batch)-1].ID

		type change struct{ id, current, sealed string }
		var changes []change
		for _, e := range batch {
			if cryptox.IsSealed(e.Secret) {
				continue
			}
			sealed, err := r.cipher.Seal(e.Secret)
			if err != nil {
				return total, err
			}
			changes = append(changes, change{e.ID, e.Secret, sealed})
		}

		if len(changes) > 0 {
			n := 0
			err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
				repo := r.repomanager.Entries(tx)
				for _, c := range changes {
					ok, err := repo.ReplaceSecret(ctx, c.id, c.current, c.sealed)
					if err != nil {
						return err
					}
					if ok {
						n++
					}
				}
				return nil
			})
			if err != nil {
				return total, err
			}
			total += n
			r.log.Info(ctx, "batch resealed", "rows", n, "last_id", afterID)
		}

		if len(batch) < r.batchSize {
			break
		}
	}

	return total, nil
}
