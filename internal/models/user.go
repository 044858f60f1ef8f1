package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleCitizen    UserRole = "CITIZEN"
	RoleContractor UserRole = "CONTRACTOR"
	RoleAdmin      UserRole = "ADMIN"
)

// RoleAllowed is the single authorization check used at every operation
// boundary. Admins pass every gate.
func RoleAllowed(role UserRole, required ...UserRole) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

type Users struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:20" validate:"required,min=3,max=20"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:50" validate:"required,email,max=50"`
	Password string   `json:"-" gorm:"not null"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	// Profile info
	FullName    string `json:"full_name" gorm:"size:100"`
	PhoneNumber string `json:"phone_number" gorm:"size:10"`
	Address     string `json:"address"`

	// Contractor accounts start disabled and only become usable after
	// admin approval.
	Enabled bool `json:"enabled" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Users) TableName() string {
	return "citizens"
}

func (u *Users) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *Users) ComparePassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}
