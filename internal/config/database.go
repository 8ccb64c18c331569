package config

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"transit_ops/internal/logger"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
)

// InitDB opens the postgres connection through lib/pq and, when enabled,
// migrates the schema.
func InitDB(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        cfg.DSN(),
	}), &gorm.Config{
		Logger:         logger.NewGormLogger(200 * time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{"host": cfg.Host, "db": cfg.Name}).Info("database connected")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// SeedSuperAdmin creates the protected superadmin account when it does not
// exist yet. Nothing happens without a configured password.
func SeedSuperAdmin(db *gorm.DB, cfg SuperAdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logrus.Warn("superadmin seed skipped: SUPERADMIN_EMAIL or SUPERADMIN_PASSWORD not set")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var agencies []models.Agency
		if err := tx.Find(&agencies).Error; err != nil {
			return err
		}
		admin := models.User{
			Username: cfg.Username,
			Email:    cfg.Email,
			Password: string(hash),
			Role:     string(policy.RoleSuperAdmin),
			MyAdmin:  cfg.Email,
			Agencies: agencies,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		logrus.WithField("email", cfg.Email).Info("superadmin account seeded")
		return nil
	})
}
