package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"carecircle/internal/database"
	"carecircle/internal/logger"
	"carecircle/internal/models"
	"carecircle/internal/reminders"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func reminderStore() reminders.Store {
	return reminders.NewGormStore(database.GetDB())
}

// CreateMedication stores a new medication reminder. The time is normalised
// to HH:mm:ss so the scheduler and the countdown read the same value.
func CreateMedication(c *gin.Context) {
	var req models.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "All required fields must be filled", err)
		return
	}

	tod, err := reminders.NormalizeTime(req.Time)
	if err != nil {
		handleError(c, http.StatusBadRequest, "Time must be in HH:mm or HH:mm:ss format", err)
		return
	}

	medication := models.MedicationReminder{
		Name:           req.Name,
		Email:          req.Email,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Time:           tod,
		Notes:          req.Notes,
	}
	if err := reminderStore().Create(c.Request.Context(), &medication); err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}

	logger.Log.Info("Medication reminder created",
		zap.Uint("medication_id", medication.ID),
		zap.String("time", medication.Time),
	)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Medication reminder set successfully!",
		"medication": medication,
	})
}

// GetMedications lists reminders ordered by time. ?sent=true|false filters on
// the sent flag.
func GetMedications(c *gin.Context) {
	var filter reminders.Filter
	if raw, ok := c.GetQuery("sent"); ok {
		sent, err := strconv.ParseBool(raw)
		if err != nil {
			handleError(c, http.StatusBadRequest, "sent must be true or false", errors.New("invalid sent filter "+strconv.Quote(raw)))
			return
		}
		filter.Sent = &sent
	}

	medications, err := reminderStore().List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Error fetching medication reminders.", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "medications": medications})
}
