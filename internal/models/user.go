package models

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:120"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Name     string   `json:"name" gorm:"not null;size:100"`
	Room     string   `json:"room_number" gorm:"column:room_number;size:10"`
	Role     UserRole `json:"role" gorm:"not null;default:student;size:20;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity composes the login key for student accounts. Admin accounts
// authenticate with their bare username instead.
func Identity(name, room string) string {
	return fmt.Sprintf("%s-%s", name, room)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (User) TableName() string {
	return "users"
}
