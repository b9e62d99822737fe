package models

import (
	"time"

	"gorm.io/gorm"
)

// MedicationReminder is a medication entry that gets emailed to its owner once
// the wall clock reaches Time. Time has no date component.
type MedicationReminder struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Email          string     `gorm:"size:255;not null" json:"email"`
	MedicationName string     `gorm:"size:255;not null" json:"medication_name"`
	Dosage         string     `gorm:"size:255;not null" json:"dosage"`
	Frequency      string     `gorm:"size:255;not null" json:"frequency"`
	Time           string     `gorm:"column:time;size:255;not null;index" json:"time"` // HH:mm or HH:mm:ss
	Notes          string     `gorm:"type:text" json:"notes"`
	ReminderSent   bool       `gorm:"not null;default:false;index" json:"reminder_sent"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ClaimToken     string     `gorm:"size:64;not null;default:''" json:"-"`
	ClaimedUntil   *time.Time `json:"-"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (MedicationReminder) TableName() string {
	return "medications"
}

// BeforeCreate hook guarantees a fresh reminder starts unsent and unclaimed
func (m *MedicationReminder) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.ReminderSent = false
	m.SentAt = nil
	m.ClaimToken = ""
	m.ClaimedUntil = nil
	return nil
}

// CreateMedicationRequest is the medication form payload
type CreateMedicationRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	MedicationName string `json:"medicationName" binding:"required"`
	Dosage         string `json:"dosage" binding:"required"`
	Frequency      string `json:"frequency" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}
