package models

import "time"

// BackupFormatVersion is bumped whenever Backup changes incompatibly.
const BackupFormatVersion = 1

// Backup is the document written to object storage by an export. Entry
// secrets are kept in their sealed form.
type Backup struct {
	Version    int            `json:"version"`
	OwnerID    string         `json:"owner_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Folders    []BackupFolder `json:"folders"`
	Entries    []BackupEntry  `json:"entries"`
}

type BackupFolder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BackupEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Username     string    `json:"username"`
	SealedSecret string    `json:"sealed_secret"`
	URL          string    `json:"url,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	FolderID     *string   `json:"folder_id,omitempty"`
	Favorite     bool      `json:"favorite"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BackupReceipt tells the caller where an export landed.
type BackupReceipt struct {
	StorageKey  string
	DownloadURL string
	Entries     int
	Folders     int
}
