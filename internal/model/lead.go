package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "New"
	LeadStatusContacted    LeadStatus = "Contacted"
	LeadStatusQualified    LeadStatus = "Qualified"
	LeadStatusDisqualified LeadStatus = "Disqualified"
	LeadStatusConverted    LeadStatus = "Converted"
)

// Valid reports whether the status is one of the known values.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusDisqualified, LeadStatusConverted:
		return true
	}
	return false
}

// Lead represents a sales prospect, optionally assigned to one user.
type Lead struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name       string     `json:"name" gorm:"size:255;not null;index"`
	Email      string     `json:"email" gorm:"size:255;not null"`
	Phone      string     `json:"phone" gorm:"size:50;not null"`
	LeadSource string     `json:"lead_source" gorm:"size:255;not null"`
	Status     LeadStatus `json:"status" gorm:"size:50;not null;default:'New';index"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty" gorm:"type:char(36);index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:LeadID"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
