package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of user roles.
type Role string

const (
	// RoleAdmin can manage users and sees every lead.
	RoleAdmin Role = "admin"
	// RoleSales only sees leads assigned to them.
	RoleSales Role = "sales"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSales:
		return true
	}
	return false
}

// User represents a sales rep or admin account.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role       `json:"role" gorm:"size:50;not null;default:'sales'"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" gorm:"type:char(36)"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Creator is the user who added this account, when known.
	// A weak back-reference, not an ownership edge.
	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile is the public projection of a user returned to clients.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByName string    `json:"created_by_name,omitempty"`
}

// PublicProfile builds the client-facing projection. The creator name is
// filled only when the Creator association was loaded.
func (u *User) PublicProfile() *Profile {
	p := &Profile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if u.Creator != nil {
		p.CreatedByName = u.Creator.Name
	}
	return p
}
