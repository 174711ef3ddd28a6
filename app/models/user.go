package models

import "time"

// User is an account record. The password hash is never serialised.
type User struct {
	ID           uint      `gorm:"primaryKey"                   json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null"            json:"-"`
	Role         string    `gorm:"size:50;not null;default:user" json:"role"`
	CreatedAt    time.Time `                                    json:"created_at"`
	UpdatedAt    time.Time `                                    json:"updated_at"`
}
