package handlers

import (
	"net/http"

	"carecircle/internal/database"
	"carecircle/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateContact saves a contact form submission
func CreateContact(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Name, email, and message are required", err)
		return
	}

	contact := models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&contact).Error; err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contact form submitted successfully!"})
}

// GetContacts lists contact messages, newest first
func GetContacts(c *gin.Context) {
	var contacts []models.Contact
	err := database.GetDB().WithContext(c.Request.Context()).
		Order("created_at DESC").Order("id DESC").
		Find(&contacts).Error
	if err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "contacts": contacts})
}

// CreateEmergencyContact registers the person to call for an elderly relative
func CreateEmergencyContact(c *gin.Context) {
	var req models.CreateEmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "All required fields must be filled", err)
		return
	}

	contact := models.EmergencyContact{
		ElderlyName:  req.ElderlyName,
		ElderlyPhone: req.ElderlyPhone,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Relationship: req.Relationship,
		Address:      req.Address,
		MedicalInfo:  req.MedicalInfo,
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&contact).Error; err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Emergency contact registered successfully!"})
}

// GetEmergencyContacts lists emergency contacts, newest first
func GetEmergencyContacts(c *gin.Context) {
	var contacts []models.EmergencyContact
	err := database.GetDB().WithContext(c.Request.Context()).
		Order("created_at DESC").Order("id DESC").
		Find(&contacts).Error
	if err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "emergency_contacts": contacts})
}
