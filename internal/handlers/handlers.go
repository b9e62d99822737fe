package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"carecircle/internal/database"
	"carecircle/internal/logger"
	"carecircle/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serverErrorMessage = "Server error. Please try again later."

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("client_ip", utils.GetRealClientIP(c)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Log.Error(message, fields...)
	} else {
		logger.Log.Info(message, fields...)
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

// HealthHandler reports that the API is up
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Care Circle API is running!",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// LivenessHandler never touches dependencies
func LivenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReadinessHandler pings the database
func ReadinessHandler(c *gin.Context) {
	db := database.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready", "error": "database not initialised"})
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// PageHandler serves one HTML page from the public directory
func PageHandler(publicDir, page string) gin.HandlerFunc {
	path := filepath.Join(publicDir, page)
	return func(c *gin.Context) {
		c.File(path)
	}
}

// NotFoundHandler serves index.html with a 404 status for unknown routes
func NotFoundHandler(publicDir string) gin.HandlerFunc {
	index := filepath.Join(publicDir, "index.html")
	return func(c *gin.Context) {
		body, err := os.ReadFile(index)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
			return
		}
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", body)
	}
}

// RecoveryHandler turns a panic in a handler into the JSON error envelope
func RecoveryHandler(c *gin.Context, recovered any) {
	logger.Log.Error("Handler panicked",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", utils.GetRealClientIP(c)),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong!"})
}
