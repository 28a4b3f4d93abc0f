package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxUsernameLength is the longest accepted username, in characters.
const MaxUsernameLength = 64

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex:idx_users_username" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

// RequiredIndexes lists indexes that must exist even on tables created earlier.
func (*User) RequiredIndexes() []string {
	return []string{"idx_users_username"}
}
