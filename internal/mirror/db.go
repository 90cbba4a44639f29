package mirror

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/acadcentral/acportal_backend/internal/collections"
	"github.com/acadcentral/acportal_backend/internal/config"
)

// Connect creates the database if it does not exist yet, then opens a pooled
// connection to it.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	bootstrapDSN := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	bootstrap, err := gorm.Open(mysql.Open(bootstrapDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}
	createSQL := fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		cfg.DBName)
	if err := bootstrap.Exec(createSQL).Error; err != nil {
		return nil, fmt.Errorf("create database %s: %w", cfg.DBName, err)
	}
	if sqlDB, err := bootstrap.DB(); err == nil {
		sqlDB.Close()
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBName, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
	}
	return db, nil
}

// EnsureSchema creates every collection table that is missing. Idempotent and
// non-destructive; structural changes beyond CREATE go through migrations.
func EnsureSchema(db *gorm.DB) error {
	for _, spec := range collections.All() {
		if err := db.Exec(spec.DDL).Error; err != nil {
			return fmt.Errorf("ensure table %s: %w", spec.Key, err)
		}
	}
	return nil
}
