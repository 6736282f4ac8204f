package db

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// Logger receives gorm's query log. Queries are logged at debug level
	// only; nil disables the gorm logger.
	Logger *zap.Logger
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger:         gormLogger(cfg.Logger),
			TranslateError: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

func gormLogger(l *zap.Logger) logger.Interface {
	if l == nil {
		return logger.Default.LogMode(logger.Silent)
	}

	mode := logger.Warn
	if l.Core().Enabled(zapcore.DebugLevel) {
		mode = logger.Info
	}

	return logger.New(printfWriter{l.Named("gorm").Sugar()}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  mode,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// printfWriter adapts a sugared zap logger to gorm's logger.Writer.
type printfWriter struct {
	log *zap.SugaredLogger
}

func (w printfWriter) Printf(format string, args ...interface{}) {
	w.log.Infof(format, args...)
}
