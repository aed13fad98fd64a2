package models

import "time"

// UserType identifies what a user account is allowed to do.
type UserType string

const (
	UserTypeOwner  UserType = "owner"
	UserTypeTenant UserType = "tenant"
	UserTypeAdmin  UserType = "admin"
)

// IsValid reports whether t is one of the known account types.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeOwner, UserTypeTenant, UserTypeAdmin:
		return true
	}
	return false
}

// User is a registered account. The password hash is never exposed through
// the API.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone     string    `gorm:"type:varchar(50);not null" json:"phone"`
	Type      UserType  `gorm:"type:varchar(20);not null;index" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// IsOwner reports whether the user may create and manage listings.
func (u *User) IsOwner() bool {
	return u.Type == UserTypeOwner
}

// IsAdmin reports whether the user has administrator rights.
func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}
