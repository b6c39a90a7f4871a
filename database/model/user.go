package model

import "time"

// Roles. A user has exactly one.
const (
	RoleUser   = "user"
	RoleMaster = "master"
)

// User is an account. Password holds the salted credential and is never serialized.
type User struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:user"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsMaster reports whether the user may manage accounts and suggestions.
func (u *User) IsMaster() bool {
	return u != nil && u.Role == RoleMaster
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleMaster
}
