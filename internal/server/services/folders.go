package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/credvault/internal/common"
	"github.com/dmitrijs2005/credvault/internal/logging"
	"github.com/dmitrijs2005/credvault/internal/server/models"
	"github.com/dmitrijs2005/credvault/internal/server/repositories/repomanager"
)

// FolderService manages the folders of each owner. Deleting a folder leaves
// its entries in place with a dangling folder reference.
type FolderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         clock
	newID       idgen
}

func NewFolderService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *FolderService {
	return &FolderService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "folders"),
		now:         utcNow,
		newID:       newUUID,
	}
}

func (s *FolderService) List(ctx context.Context, ownerID string) ([]*models.Folder, error) {
	if ownerID == "" {
		return nil, common.ErrorMissingOwner
	}
	return s.repomanager.Folders(s.db).List(ctx, ownerID)
}

func (s *FolderService) Create(ctx context.Context, ownerID, name string) (string, error) {
	if ownerID == "" {
		return "", common.ErrorMissingOwner
	}
	if err := validateFolderName(name); err != nil {
		return "", err
	}

	now := s.now()
	f := &models.Folder{ID: s.newID(), OwnerID: ownerID, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.repomanager.Folders(s.db).Create(ctx, f); err != nil {
		return "", err
	}

	s.log.Debug(ctx, "folder created", "owner_id", ownerID, "folder_id", f.ID)
	return f.ID, nil
}

// Update renames a folder.
func (s *FolderService) Update(ctx context.Context, ownerID, id, name string) error {
	if ownerID == "" {
		return common.ErrorMissingOwner
	}
	if err := validateFolderName(name); err != nil {
		return err
	}
	return s.repomanager.Folders(s.db).Rename(ctx, ownerID, id, name, s.now())
}

func (s *FolderService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return common.ErrorMissingOwner
	}
	if err := s.repomanager.Folders(s.db).Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Debug(ctx, "folder deleted", "owner_id", ownerID, "folder_id", id)
	return nil
}

func (s *FolderService) Exists(ctx context.Context, ownerID, id string) (bool, error) {
	if ownerID == "" {
		return false, common.ErrorMissingOwner
	}
	return s.repomanager.Folders(s.db).Exists(ctx, ownerID, id)
}
