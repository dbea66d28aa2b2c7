package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered member of the marketplace
type User struct {
	BaseModel
	Email          string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	HashedPassword string  `gorm:"size:255;not null" json:"-"` // Never send password hash in JSON
	IsActive       bool    `gorm:"default:true" json:"isActive"`
	IsSuperuser    bool    `gorm:"default:false" json:"isSuperuser"`
	FullName       *string `gorm:"size:255" json:"fullName,omitempty"`

	// Relations (not always preloaded). Deleting a user takes all of
	// their plants with it, and transitively every trade request and
	// message hanging off those plants.
	Plants []Plant `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"isActive"`
	IsSuperuser bool      `json:"isSuperuser"`
	FullName    *string   `json:"fullName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		FullName:    u.FullName,
		CreatedAt:   u.CreatedAt,
	}
}
