package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User roles. A buyer becomes a farmer only through an admin approving a
// permit verification.
const (
	RoleBuyer  = "buyer"
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string
	LastName  string
	Phone     string
	Role      string `gorm:"default:'buyer'"`
	Status    string `gorm:"default:'active'"`
	FarmName  string
	Address   string
	Latitude  float64
	Longitude float64

	// Mirror of the latest permit verification outcome, kept in sync by the
	// verification service so the user document stays self-describing.
	BusinessVerificationStatus      string     `gorm:"default:''"`
	BusinessVerificationSubmittedAt *time.Time `gorm:"default:null"`
	BusinessVerificationML          JSON       `gorm:"type:jsonb"`

	LastLoginAt  time.Time
	TokenVersion int `gorm:"default:1"`
}

// FullName joins first and last name, trimming when one is missing.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	FarmName  string `json:"farm_name"`
}
