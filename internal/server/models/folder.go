package models

import "time"

// Folder groups entries of one owner. Entries reference folders weakly.
type Folder struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
