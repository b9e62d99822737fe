package models

import "time"

// Contact is a message left through the contact form
type Contact struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Service   string    `gorm:"size:255" json:"service"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

type CreateContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message" binding:"required"`
}

// EmergencyContact links an elderly person to the person to call
type EmergencyContact struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ElderlyName  string    `gorm:"size:255;not null" json:"elderly_name"`
	ElderlyPhone string    `gorm:"size:50;not null" json:"elderly_phone"`
	ContactName  string    `gorm:"size:255;not null" json:"contact_name"`
	ContactPhone string    `gorm:"size:50;not null" json:"contact_phone"`
	Relationship string    `gorm:"size:255;not null" json:"relationship"`
	Address      string    `gorm:"type:text" json:"address"`
	MedicalInfo  string    `gorm:"type:text" json:"medical_info"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (EmergencyContact) TableName() string {
	return "emergency_contacts"
}

type CreateEmergencyContactRequest struct {
	ElderlyName  string `json:"elderlyName" binding:"required"`
	ElderlyPhone string `json:"elderlyPhone" binding:"required"`
	ContactName  string `json:"contactName" binding:"required"`
	ContactPhone string `json:"contactPhone" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
	Address      string `json:"address"`
	MedicalInfo  string `json:"medicalInfo"`
}
