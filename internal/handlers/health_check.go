package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"carecircle/internal/database"
	"carecircle/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateHealthCheck records a vitals entry
func CreateHealthCheck(c *gin.Context) {
	var req models.CreateHealthCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Name and age are required", err)
		return
	}
	if req.Age <= 0 {
		handleError(c, http.StatusBadRequest, "Name and age are required", errors.New("age must be positive"))
		return
	}

	check := models.HealthCheck{
		Name:          req.Name,
		Age:           int(req.Age),
		BloodPressure: req.BloodPressure,
		HeartRate:     req.HeartRate,
		Temperature:   req.Temperature,
		Weight:        req.Weight,
		Symptoms:      req.Symptoms,
		Medications:   req.Medications,
		Notes:         req.Notes,
		CheckDate:     time.Now().UTC(),
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&check).Error; err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Health check recorded successfully!"})
}

// LogClockInteraction stores a guest click on the clock widget as a health
// record for "Guest"
func LogClockInteraction(c *gin.Context) {
	var req models.ClockInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Error logging clock/timer interaction.", err)
		return
	}

	checkDate := time.Now().UTC()
	if req.Time != "" {
		t, err := time.Parse(time.RFC3339, req.Time)
		if err != nil {
			handleError(c, http.StatusBadRequest, "time must be an ISO 8601 timestamp", err)
			return
		}
		checkDate = t.UTC()
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = "Clock interaction on " + req.Page
	}

	check := models.HealthCheck{
		Name:      models.GuestName,
		Notes:     note,
		CheckDate: checkDate,
	}
	if err := database.GetDB().WithContext(c.Request.Context()).Create(&check).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Error logging clock/timer interaction.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Clock/timer interaction logged."})
}

// GetHealthRecords lists health checks and guest interactions, newest first
func GetHealthRecords(c *gin.Context) {
	var records []models.HealthCheck
	err := database.GetDB().WithContext(c.Request.Context()).
		Order("check_date DESC").Order("id DESC").
		Find(&records).Error
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Error fetching health records.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "records": records})
}
