package database

import (
	"fmt"
	"time"

	"carecircle/internal/config"
	"carecircle/internal/models"
	"carecircle/internal/reminders"
	"carecircle/internal/utils"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN builds the postgres connection string. DATABASE_URL (Neon, Railway) wins
// over the individual parts.
func DSN(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable" // Default to disable for local development
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s connect_timeout=10",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, sslMode)
}

// InitDB connects to postgres, configures the pool and migrates all tables
func InitDB(cfg config.DBConfig, log *zap.Logger) error {
	level := logger.Warn
	if log.Core().Enabled(zap.DebugLevel) {
		level = logger.Info
	}

	db, err := Open(postgres.Open(DSN(cfg)), log, level)
	if err != nil {
		return err
	}
	db = db.Session(&gorm.Session{PrepareStmt: true})

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return err
	}

	DB = db
	log.Info("Database connection established and migrations completed")
	return nil
}

// Open opens a gorm connection with retries. The dialector is a parameter so
// tests can hand in SQLite.
func Open(dialector gorm.Dialector, log *zap.Logger, level logger.LogLevel) (*gorm.DB, error) {
	baseLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	// The scheduler scans once a minute; keep that query out of the SQL log
	customLogger := utils.NewCustomGormLogger(baseLogger, reminders.DueScanQuery)

	gormConfig := &gorm.Config{
		Logger: customLogger,
	}

	var (
		db  *gorm.DB
		err error
	)
	maxRetries := 5
	retryDelay := time.Second * 5

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(dialector, gormConfig)
		if err == nil {
			break
		}
		log.Warn("Database connection attempt failed", zap.Int("attempt", i+1), zap.Error(err))
		if i < maxRetries-1 {
			log.Info("Retrying database connection", zap.Duration("delay", retryDelay))
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}
	return db, nil
}

// Migrate creates or updates every table the app uses
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.MedicationReminder{},
		&models.Contact{},
		&models.EmergencyContact{},
		&models.HealthCheck{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
