// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID           string
	UserName     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	AvatarKey    string
	Bio          string
	Verified     bool
	Disabled     bool
	RoleID       string
	RoleName     string
	CreatedAt    time.Time
}

type Role struct {
	ID   string
	Name string
}
