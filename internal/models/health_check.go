package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GuestName is recorded on health checks logged from clock interactions
const GuestName = "Guest"

// HealthCheck is a vitals entry, or a guest interaction logged by the clock widget
type HealthCheck struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Age           int       `gorm:"not null" json:"age"`
	BloodPressure string    `gorm:"size:255" json:"blood_pressure"`
	HeartRate     string    `gorm:"size:255" json:"heart_rate"`
	Temperature   string    `gorm:"size:255" json:"temperature"`
	Weight        string    `gorm:"size:255" json:"weight"`
	Symptoms      string    `gorm:"type:text" json:"symptoms"`
	Medications   string    `gorm:"type:text" json:"medications"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CheckDate     time.Time `gorm:"index" json:"check_date"`
}

func (HealthCheck) TableName() string {
	return "health_checks"
}

// FlexInt accepts both 72 and "72". HTML forms serialised with FormData send strings.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(data), err)
	}
	*n = FlexInt(v)
	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(n))
}

type CreateHealthCheckRequest struct {
	Name          string  `json:"name" binding:"required"`
	Age           FlexInt `json:"age" binding:"required"`
	BloodPressure string  `json:"bloodPressure"`
	HeartRate     string  `json:"heartRate"`
	Temperature   string  `json:"temperature"`
	Weight        string  `json:"weight"`
	Symptoms      string  `json:"symptoms"`
	Medications   string  `json:"medications"`
	Notes         string  `json:"notes"`
}

// ClockInteractionRequest is sent when someone clicks the homepage clock or
// touches the medication form without an account
type ClockInteractionRequest struct {
	Time string `json:"time"` // RFC3339, optional
	Page string `json:"page"`
	Note string `json:"note"`
}
