package domain

import "time"

// Role type to distinguish between admin API users
type Role string

const (
	RoleAdmin  Role = "admin"  // full access, including cascading deletes
	RoleEditor Role = "editor" // may write articles and exercise content
)

// User is an account allowed to use the admin API.
type User struct {
	ID           int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Name         string    `bson:"name" json:"name" gorm:"size:100"`
	Email        string    `bson:"email" json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `bson:"passwordHash" json:"-" gorm:"not null"` // Never expose this via JSON
	Role         Role      `bson:"role" json:"role" gorm:"size:20;not null"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
