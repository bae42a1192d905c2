package database

import (
	"fmt"
	"time"

	"siar/internal/config"
	"siar/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database selected by cfg.Type.
func Connect(cfg config.DatabaseConfig, lg *zap.SugaredLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.URL)
	case "mysql", "mariadb":
		dialector = mysql.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Type, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	lg.Infow("database connected", "type", cfg.Type)
	return db, nil
}

// AutoMigrate creates or updates every table the portal uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Division{},
		&models.Branch{},
		&models.User{},
		&models.Session{},
		&models.MaintenanceIssue{},
		&models.ProjectItem{},
		&models.Event{},
		&models.Message{},
		&models.Notification{},
		&models.Log{},
		&models.FileUpload{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
