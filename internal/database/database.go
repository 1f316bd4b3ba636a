package database

import (
	"context"

	"github.com/ggorockee/leadmaps/internal/config"
	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB owns the connection pool for the lifetime of the process
type DB struct {
	*gorm.DB
}

func Connect(cfg *config.Config) (*DB, error) {
	log := logger.GetLogger("database")

	logLevel := gormlogger.Silent
	if cfg.ServerEnv == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	// Register metrics plugin for Prometheus
	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Warnf("Failed to register metrics plugin: %v", err)
	} else {
		log.Info("Database metrics plugin registered")
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
		log.Infow("Database connection pool configured",
			"max_open", cfg.DBMaxOpenConns,
			"max_idle", cfg.DBMaxIdleConns,
			"max_lifetime", cfg.DBConnMaxLifetime,
		)
	}

	return &DB{db}, nil
}

// Migrate runs AutoMigrate for the lead domain
func Migrate(db *DB) error {
	return db.AutoMigrate(
		&models.Business{},
		&models.Lead{},
	)
}

// Ping checks that a pooled connection can reach the server
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
