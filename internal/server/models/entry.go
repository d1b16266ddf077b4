// Package models defines the record shapes persisted by the vault server
// and the payloads its services accept.
package models

import "time"

// Entry is a stored credential. Secret holds the sealed value while the
// entry travels between repositories and services, and the opened plaintext
// once a service hands it to a caller.
type Entry struct {
	ID        string
	OwnerID   string
	Title     string
	Username  string
	Secret    string
	URL       string
	Notes     string
	FolderID  *string
	Favorite  bool
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryFields is the create payload.
type EntryFields struct {
	Title    string
	Username string
	Secret   string
	URL      string
	Notes    string
	FolderID *string
}

// EntryPatch is the partial update payload. Nil fields are left untouched.
// A FolderID pointing to "" removes the folder association.
type EntryPatch struct {
	Title    *string
	Username *string
	Secret   *string
	URL      *string
	Notes    *string
	FolderID *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Title == nil && p.Username == nil && p.Secret == nil &&
		p.URL == nil && p.Notes == nil && p.FolderID == nil
}
