package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/devfolio/projects-api/config"
)

// Open connects to the configured primary database and, for postgres, registers any read replicas.
func Open(settings config.DatabaseSettings, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(settings), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, err
	}

	if len(settings.ReadReplicas) > 0 && settings.Type != "sqlite" {
		replicas := make([]gorm.Dialector, 0, len(settings.ReadReplicas))
		for _, dsn := range settings.ReadReplicas {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(settings.MaxOpenConns).
			SetMaxIdleConns(settings.MaxIdleConns).
			SetConnMaxLifetime(30 * time.Minute)
		if err := db.Use(resolver); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(settings.MaxOpenConns)
	sqlDB.SetMaxIdleConns(settings.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, err
	}
	return db, nil
}

func dialector(settings config.DatabaseSettings) gorm.Dialector {
	if settings.Type == "sqlite" {
		return sqlite.Open(settings.SQLitePath + "?_foreign_keys=on")
	}
	return postgres.New(postgres.Config{
		DSN:                  settings.DSN(),
		PreferSimpleProtocol: true,
	})
}
