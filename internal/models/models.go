package models

import "time"

type Role string

const (
	RoleIT    Role = "IT"
	RoleNonIT Role = "NON_IT"
)

type Division struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Code string `gorm:"size:10" json:"code"`
}

type Branch struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	NomorID        string    `gorm:"uniqueIndex;size:50;not null" json:"nomor_id"`
	NamaLengkap    string    `gorm:"size:150;not null" json:"nama_lengkap"`
	Email          string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash   string    `gorm:"column:password;not null" json:"-"`
	Divisi         string    `gorm:"size:100;not null" json:"divisi"`
	Cabang         string    `gorm:"size:100;not null" json:"cabang"`
	Role           Role      `gorm:"size:10;not null;default:NON_IT" json:"role"`
	ProfilePicture *string   `gorm:"type:text" json:"profile_picture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Session struct {
	JTI       string     `gorm:"primaryKey;size:64" json:"jti"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
