package model

import "time"

// User is an account that can authenticate against the API.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         Role      `gorm:"column:role;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin returns true if the user may manage events, organizers and tags.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
