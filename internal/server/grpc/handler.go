package grpc

import (
	"context"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, MethodRegister, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {

	tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, MethodLogin, err)
	}

	return &LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, MethodRefreshToken, err)
	}

	return &RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, req *ListEntriesRequest) (*ListEntriesResponse, error) {

	items, err := s.vault.List(ctx, ownerFromContext(ctx), req.FolderID)
	if err != nil {
		return nil, s.toStatus(ctx, MethodListEntries, err)
	}

	return &ListEntriesResponse{Entries: entriesToDTO(items)}, nil
}

func (s *GRPCServer) ListFavorites(ctx context.Context, req *ListFavoritesRequest) (*ListEntriesResponse, error) {

	items, err := s.vault.ListFavorites(ctx, ownerFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, MethodListFavorites, err)
	}

	return &ListEntriesResponse{Entries: entriesToDTO(items)}, nil
}

func (s *GRPCServer) GetEntry(ctx context.Context, req *GetEntryRequest) (*GetEntryResponse, error) {

	e, err := s.vault.Get(ctx, ownerFromContext(ctx), req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, MethodGetEntry, err)
	}

	return &GetEntryResponse{Entry: entryToDTO(e)}, nil
}

func (s *GRPCServer) CreateEntry(ctx context.Context, req *CreateEntryRequest) (*CreateEntryResponse, error) {

	id, err := s.vault.Create(ctx, ownerFromContext(ctx), models.EntryFields{
		Title:    req.Title,
		Username: req.Username,
		Secret:   req.Secret,
		URL:      req.URL,
		Notes:    req.Notes,
		FolderID: req.FolderID,
	})
	if err != nil {
		return nil, s.toStatus(ctx, MethodCreateEntry, err)
	}

	return &CreateEntryResponse{ID: id}, nil
}

func (s *GRPCServer) UpdateEntry(ctx context.Context, req *UpdateEntryRequest) (*UpdateEntryResponse, error) {

	err := s.vault.Update(ctx, ownerFromContext(ctx), req.ID, models.EntryPatch{
		Title:    req.Title,
		Username: req.Username,
		Secret:   req.Secret,
		URL:      req.URL,
		Notes:    req.Notes,
		FolderID: req.FolderID,
	})
	if err != nil {
		return nil, s.toStatus(ctx, MethodUpdateEntry, err)
	}

	return &UpdateEntryResponse{}, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *DeleteEntryRequest) (*DeleteEntryResponse, error) {

	if err := s.vault.SoftDelete(ctx, ownerFromContext(ctx), req.ID); err != nil {
		return nil, s.toStatus(ctx, MethodDeleteEntry, err)
	}

	return &DeleteEntryResponse{}, nil
}

func (s *GRPCServer) ToggleFavorite(ctx context.Context, req *ToggleFavoriteRequest) (*ToggleFavoriteResponse, error) {

	fav, err := s.vault.ToggleFavorite(ctx, ownerFromContext(ctx), req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, MethodToggleFavorite, err)
	}

	return &ToggleFavoriteResponse{Favorite: fav}, nil
}

func (s *GRPCServer) ListFolders(ctx context.Context, req *ListFoldersRequest) (*ListFoldersResponse, error) {

	items, err := s.folders.List(ctx, ownerFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, MethodListFolders, err)
	}

	return &ListFoldersResponse{Folders: foldersToDTO(items)}, nil
}

func (s *GRPCServer) CreateFolder(ctx context.Context, req *CreateFolderRequest) (*CreateFolderResponse, error) {

	id, err := s.folders.Create(ctx, ownerFromContext(ctx), req.Name)
	if err != nil {
		return nil, s.toStatus(ctx, MethodCreateFolder, err)
	}

	return &CreateFolderResponse{ID: id}, nil
}

func (s *GRPCServer) RenameFolder(ctx context.Context, req *RenameFolderRequest) (*RenameFolderResponse, error) {

	if err := s.folders.Update(ctx, ownerFromContext(ctx), req.ID, req.Name); err != nil {
		return nil, s.toStatus(ctx, MethodRenameFolder, err)
	}

	return &RenameFolderResponse{}, nil
}

func (s *GRPCServer) DeleteFolder(ctx context.Context, req *DeleteFolderRequest) (*DeleteFolderResponse, error) {

	if err := s.folders.Delete(ctx, ownerFromContext(ctx), req.ID); err != nil {
		return nil, s.toStatus(ctx, MethodDeleteFolder, err)
	}

	return &DeleteFolderResponse{}, nil
}

func (s *GRPCServer) ExportBackup(ctx context.Context, req *ExportBackupRequest) (*ExportBackupResponse, error) {

	r, err := s.backups.Export(ctx, ownerFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, MethodExportBackup, err)
	}

	s.logger.Info(ctx, "Backup exported", "storage_key", r.StorageKey, "entries", r.Entries)
	return &ExportBackupResponse{
		StorageKey:  r.StorageKey,
		DownloadURL: r.DownloadURL,
		Entries:     r.Entries,
		Folders:     r.Folders,
	}, nil
}
