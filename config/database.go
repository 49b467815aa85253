package config

import (
	"fmt"
	"log"
	"strings"

	"campus-governance-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// GormConfig returns the gorm settings shared by the API and the command line tools.
func GormConfig() *gorm.Config {
	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	logLevel := logger.Info
	if App.IsProduction() && !App.DebugSQL {
		logLevel = logger.Warn
	}

	return &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
		TranslateError: true,
	}
}

func dialector(cfg AppConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUsername,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBDatabase,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUsername,
			cfg.DBPassword,
			cfg.DBDatabase,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func InitDB() {
	dial, err := dialector(App)
	if err != nil {
		log.Fatal("Failed to configure database:", err)
	}

	DB, err = gorm.Open(dial, GormConfig())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if App.DBAutoMigrate {
		if err := AutoMigrate(DB); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
	}

	log.Println("Database connected successfully")
}

// AutoMigrate creates or updates every governance table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Event{},
		&models.Submission{},
		&models.JudgeAssignment{},
		&models.JudgeScore{},
		&models.ScoreLock{},
		&models.GovernanceLog{},
	)
}
