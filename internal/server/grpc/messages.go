package grpc

import (
	"time"

	"github.com/dmitrijs2005/credvault/internal/server/models"
)

type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username,omitempty"`
	Secret    string    `json:"secret"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	FolderID  *string   `json:"folder_id,omitempty"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PingRequest struct{}
type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}
type RefreshTokenResponse = LoginResponse

type ListEntriesRequest struct {
	FolderID *string `json:"folder_id,omitempty"`
}
type ListEntriesResponse struct {
	Entries []*Entry `json:"entries"`
}

type ListFavoritesRequest struct{}

type GetEntryRequest struct {
	ID string `json:"id"`
}
type GetEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type CreateEntryRequest struct {
	Title    string  `json:"title"`
	Username string  `json:"username,omitempty"`
	Secret   string  `json:"secret"`
	URL      string  `json:"url,omitempty"`
	Notes    string  `json:"notes,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}
type CreateEntryResponse struct {
	ID string `json:"id"`
}

// UpdateEntryRequest carries a partial update; absent fields are untouched
// and an empty folder_id clears the folder.
type UpdateEntryRequest struct {
	ID       string  `json:"id"`
	Title    *string `json:"title,omitempty"`
	Username *string `json:"username,omitempty"`
	Secret   *string `json:"secret,omitempty"`
	URL      *string `json:"url,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	FolderID *string `json:"folder_id,omitempty"`
}
type UpdateEntryResponse struct{}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}
type DeleteEntryResponse struct{}

type ToggleFavoriteRequest struct {
	ID string `json:"id"`
}
type ToggleFavoriteResponse struct {
	Favorite bool `json:"favorite"`
}

type ListFoldersRequest struct{}
type ListFoldersResponse struct {
	Folders []*Folder `json:"folders"`
}

type CreateFolderRequest struct {
	Name string `json:"name"`
}
type CreateFolderResponse struct {
	ID string `json:"id"`
}

type RenameFolderRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
type RenameFolderResponse struct{}

type DeleteFolderRequest struct {
	ID string `json:"id"`
}
type DeleteFolderResponse struct{}

type ExportBackupRequest struct{}
type ExportBackupResponse struct {
	StorageKey  string `json:"storage_key"`
	DownloadURL string `json:"download_url"`
	Entries     int    `json:"entries"`
	Folders     int    `json:"folders"`
}

func entryToDTO(e *models.Entry) *Entry {
	return &Entry{
		ID:        e.ID,
		Title:     e.Title,
		Username:  e.Username,
		Secret:    e.Secret,
		URL:       e.URL,
		Notes:     e.Notes,
		FolderID:  e.FolderID,
		Favorite:  e.Favorite,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func entriesToDTO(items []*models.Entry) []*Entry {
	out := make([]*Entry, 0, len(items))
	for _, e := range items {
		out = append(out, entryToDTO(e))
	}
	return out
}

func foldersToDTO(items []*models.Folder) []*Folder {
	out := make([]*Folder, 0, len(items))
	for _, f := range items {
		out = append(out, &Folder{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt})
	}
	return out
}
