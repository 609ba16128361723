package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID                   int64
	Email                string
	PasswordHash         string
	DFBUsernameEncrypted sql.NullString
	DFBPasswordEncrypted sql.NullString
	CreatedAt            time.Time
}

// HasDFBCredentials reports whether both encrypted DFBnet credentials are stored.
func (u *User) HasDFBCredentials() bool {
	return u.DFBUsernameEncrypted.Valid && u.DFBUsernameEncrypted.String != "" &&
		u.DFBPasswordEncrypted.Valid && u.DFBPasswordEncrypted.String != ""
}
