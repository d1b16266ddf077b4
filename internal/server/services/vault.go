package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/cryptox"
	"github.com/dmitrijs2005/credvault/internal/dbx"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

// VaultService manages the credential entries of each owner. Secrets are
// sealed before they reach a repository and opened before they leave the
// service; callers only ever see plaintext.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      Sealer
	log         logging.Logger
	now         clock
	newID       idgen
}

func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, cipher Sealer, log logging.Logger) *VaultService {
	return &VaultService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		log:         log.With("module", "vault"),
		now:         utcNow,
		newID:       newUUID,
	}
}

// List returns the owner's live entries ordered by creation time. A non-nil
// folderID keeps only entries of that folder while the folder exists. One
// entry whose secret cannot be opened fails the whole call with
// common.ErrorDecode.
func (s *VaultService) List(ctx context.Context, ownerID string, folderID *string) ([]*models.Entry, error) {
	return s.list(ctx, ownerID, entries.ListFilter{FolderID: folderID})
}

// ListFavorites returns the owner's live favorite entries.
func (s *VaultService) ListFavorites(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	return s.list(ctx, ownerID, entries.ListFilter{FavoritesOnly: true})
}

func (s *VaultService) list(ctx context.Context, ownerID string, filter entries.ListFilter) ([]*models.Entry, error) {
	if ownerID == "" {
		return nil, common.ErrorMissingOwner
	}

	items, err := s.repomanager.Entries(s.db).List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	for _, e := range items {
		if err := s.open(e); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *VaultService) Get(ctx context.Context, ownerID, id string) (*models.Entry, error) {
	if ownerID == "" {
		return nil, common.ErrorMissingOwner
	}

	e, err := s.repomanager.Entries(s.db).Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.open(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Create stores a new entry and returns its id.
func (s *VaultService) Create(ctx context.Context, ownerID string, fields models.EntryFields) (string, error) {
	if ownerID == "" {
		return "", common.ErrorMissingOwner
	}
	if err := validateFields(fields); err != nil {
		return "", err
	}

	folderID := fields.FolderID
	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	if folderID != nil {
		if err := s.requireFolder(ctx, s.db, ownerID, *folderID); err != nil {
			return "", err
		}
	}

	sealed, err := s.cipher.Seal(fields.Secret)
	if err != nil {
		return "", err
	}

	now := s.now()
	e := &models.Entry{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Title:     fields.Title,
		Username:  fields.Username,
		Secret:    sealed,
		URL:       fields.URL,
		Notes:     fields.Notes,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repomanager.Entries(s.db).Create(ctx, e); err != nil {
		return "", err
	}

	s.log.Debug(ctx, "entry created", "owner_id", ownerID, "entry_id", e.ID)
	return e.ID, nil
}

// Update applies patch to a live entry of the owner. A sealed secret is
// resealed only when its plaintext actually changes.
func (s *VaultService) Update(ctx context.Context, ownerID, id string, patch models.EntryPatch) error {
	if ownerID == "" {
		return common.ErrorMissingOwner
	}
	if err := validatePatch(patch); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)

		e, err := repo.Get(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if patch.FolderID != nil {
			if *patch.FolderID == "" {
				e.FolderID = nil
			} else {
				if err := s.requireFolder(ctx, tx, ownerID, *patch.FolderID); err != nil {
					return err
				}
				folderID := *patch.FolderID
				e.FolderID = &folderID
			}
		}
		if patch.Title != nil {
			e.Title = *patch.Title
		}
		if patch.Username != nil {
			e.Username = *patch.Username
		}
		if patch.URL != nil {
			e.URL = *patch.URL
		}
		if patch.Notes != nil {
			e.Notes = *patch.Notes
		}
		if patch.Secret != nil {
			current, err := s.cipher.Open(e.Secret)
			// Unreadable or legacy plaintext values are always replaced.
			if err != nil || !cryptox.IsSealed(e.Secret) || current != *patch.Secret {
				sealed, err := s.cipher.Seal(*patch.Secret)
				if err != nil {
					return err
				}
				e.Secret = sealed
			}
		}

		e.UpdatedAt = s.now()
		return repo.Update(ctx, e)
	})
	if err != nil {
		return err
	}

	s.log.Debug(ctx, "entry updated", "owner_id", ownerID, "entry_id", id)
	return nil
}

// SoftDelete hides an entry from every read. The row stays in storage.
func (s *VaultService) SoftDelete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return common.ErrorMissingOwner
	}
	if err := s.repomanager.Entries(s.db).SoftDelete(ctx, ownerID, id, s.now()); err != nil {
		return err
	}
	s.log.Debug(ctx, "entry deleted", "owner_id", ownerID, "entry_id", id)
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *VaultService) ToggleFavorite(ctx context.Context, ownerID, id string) (bool, error) {
	if ownerID == "" {
		return false, common.ErrorMissingOwner
	}
	return s.repomanager.Entries(s.db).ToggleFavorite(ctx, ownerID, id, s.now())
}

func (s *VaultService) requireFolder(ctx context.Context, db dbx.DBTX, ownerID, folderID string) error {
	ok, err := s.repomanager.Folders(db).Exists(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: folder %s does not exist", common.ErrorValidation, folderID)
	}
	return nil
}

func (s *VaultService) open(e *models.Entry) error {
	plain, err := s.cipher.Open(e.Secret)
	if err != nil {
		return fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Secret = plain
	return nil
}
