package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SearchLimit caps the row count of every search/list query.
const SearchLimit = 100

var (
	db *gorm.DB
)

func GetDB() *gorm.DB {
	return db
}

func init() {
	// Load env from .env
	godotenv.Load()
}

// ConnectDatabase opens the database and sets the global handle.
//
// DB_DRIVER selects the backend:
//   - "sqlite" (default): embedded single-file database at DB_PATH
//     (default ./data/sampletrack.db). The directory is created on demand.
//   - "mysql": classic server deployment, configured via DB_USER, DB_PASSWORD,
//     DB_HOST, DB_PORT, DB_NAME.
func ConnectDatabase() error {
	var err error

	switch os.Getenv("DB_DRIVER") {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?multiStatements=true&parseTime=true",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
		db, err = gorm.Open(mysql.Open(dsn), initConfig())
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = filepath.Join("data", "sampletrack.db")
		}
		if dir := filepath.Dir(path); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return mkErr
			}
		}
		db, err = gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), initConfig())
	}
	if err != nil {
		return err
	}

	// Tune the database/sql pool.
	// Env overrides (optional):
	// - DB_MAX_OPEN_CONNS (default 10)
	// - DB_MAX_IDLE_CONNS (default 5)
	// - DB_CONN_MAX_LIFETIME_SECONDS (default 300)
	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(envInt("DB_MAX_OPEN_CONNS", 10))
		sqlDB.SetMaxIdleConns(envInt("DB_MAX_IDLE_CONNS", 5))
		sqlDB.SetConnMaxLifetime(time.Duration(envInt("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second)
	}
	return nil
}

// MustConnectDatabase is ConnectDatabase for main(); it aborts on failure.
func MustConnectDatabase() {
	if err := ConnectDatabase(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
}

func initConfig() *gorm.Config {
	logLevel := logger.Warn
	if os.Getenv("DB_LOG_SQL") == "1" {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logLevel,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
