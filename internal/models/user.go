package models

import "time"

// User is an authenticated account. Rows are created on first Google sign-in.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:128" json:"name"`
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is a server-side login session keyed by an opaque cookie token.
// AccessToken carries the Google OAuth token used for Calendar reads.
type Session struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Token        string `gorm:"size:64;uniqueIndex;not null"`
	UserID       uint   `gorm:"index;not null"`
	AccessToken  string `gorm:"type:text"`
	RefreshToken string `gorm:"type:text"`
	ExpiresAt    time.Time
	CreatedAt    time.Time

	User User `gorm:"foreignKey:UserID"`
}
