package handlers

import (
	"errors"
	"net/http"
	"strings"

	"carecircle/internal/database"
	"carecircle/internal/logger"
	"carecircle/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Register creates a user account
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "All fields are required.", err)
		return
	}

	db := database.GetDB().WithContext(c.Request.Context())
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	if count > 0 {
		handleError(c, http.StatusBadRequest, "Email already registered.", errors.New("duplicate email"))
		return
	}

	// Password hashing is handled in the User model's BeforeCreate hook
	user := models.User{
		Name:     req.Name,
		Email:    email,
		Password: req.Password,
	}
	if err := db.Create(&user).Error; err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}

	logger.Log.Info("User registered", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration successful."})
}

// Login checks an email and password pair
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Email and password are required.", err)
		return
	}

	var user models.User
	err := database.GetDB().WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		handleError(c, http.StatusUnauthorized, "Invalid email or password.", err)
		return
	}
	if err != nil {
		handleError(c, http.StatusInternalServerError, serverErrorMessage, err)
		return
	}
	if !user.VerifyPassword(req.Password) {
		handleError(c, http.StatusUnauthorized, "Invalid email or password.", errors.New("password mismatch"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful.",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
