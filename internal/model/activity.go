package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityType classifies a lead history entry.
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "Call"
	ActivityTypeEmail   ActivityType = "Email"
	ActivityTypeMeeting ActivityType = "Meeting"
	ActivityTypeNote    ActivityType = "Note"
)

// Valid reports whether the type is one of the known values.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeEmail, ActivityTypeMeeting, ActivityTypeNote:
		return true
	}
	return false
}

// Activity is a note or interaction recorded against a lead.
type Activity struct {
	ID          uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	LeadID      uuid.UUID    `json:"lead_id" gorm:"type:char(36);not null;index"`
	Type        ActivityType `json:"type" gorm:"size:50;not null"`
	Description string       `json:"description" gorm:"type:text;not null"`
	CreatedBy   uuid.UUID    `json:"created_by" gorm:"type:char(36);not null"`
	CreatedAt   time.Time    `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
