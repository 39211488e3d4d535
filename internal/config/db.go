package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteOptions serialise writers on BEGIN so concurrent merges wait instead of failing.
const sqliteOptions = "_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL"

// SqliteDSN appends the connection options to a sqlite file path.
func SqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + sqliteOptions
	}

	return path + "?" + sqliteOptions
}

// GetDb opens the configured database. It panics when the database is unreachable.
func GetDb(cfg *Config) *gorm.DB {
	gormConfig := &gorm.Config{
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DB.DSN)
	case DriverSqlite, "":
		if dir := filepath.Dir(cfg.DB.DSN); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				panic(err)
			}
		}
		dialector = sqlite.Open(SqliteDSN(cfg.DB.DSN))
	default:
		logrus.Fatalf("unknown database driver: %s", cfg.DB.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		panic(err)
	}

	return db
}
