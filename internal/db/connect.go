package db

import (
	"fmt"

	"github.com/jmallard/daybook/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a MySQL DSN from database configuration.
func DSN(dc config.DatabaseConfig) string {
	cred := dc.User
	if dc.Password != "" {
		cred = dc.User + ":" + dc.Password
	}
	return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true", cred, dc.Host, dc.Port, dc.Name)
}

// Connect opens a GORM connection to the configured backend.
func Connect(dc config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch dc.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dc.Path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", dc.Path, err)
		}
		return db, nil
	case "mysql":
		db, err := gorm.Open(mysql.Open(DSN(dc)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", dc.Host, dc.Port, dc.Name, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", dc.Driver)
	}
}

// ConnectAdmin opens a MySQL connection without selecting a database, used
// for CREATE/DROP DATABASE operations. Not applicable to sqlite.
func ConnectAdmin(dc config.DatabaseConfig) (*gorm.DB, error) {
	if dc.Driver != "mysql" {
		return nil, fmt.Errorf("db: admin connect requires mysql, got %q", dc.Driver)
	}
	cred := dc.User
	if dc.Password != "" {
		cred = dc.User + ":" + dc.Password
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%d)/?parseTime=true", cred, dc.Host, dc.Port)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: admin connect to %s:%d: %w", dc.Host, dc.Port, err)
	}
	return db, nil
}

// CreateDatabase creates the named database if it doesn't already exist.
func CreateDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: create database %s: %w", name, err)
	}
	return nil
}

// DropDatabase drops the named database if it exists.
func DropDatabase(adminDB *gorm.DB, name string) error {
	sql := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)
	if err := adminDB.Exec(sql).Error; err != nil {
		return fmt.Errorf("db: drop database %s: %w", name, err)
	}
	return nil
}
