package models

import "time"

type User struct {
	ID           string
	UserName     string
	Salt         []byte
	PasswordHash []byte
	CreatedAt    time.Time
}

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
