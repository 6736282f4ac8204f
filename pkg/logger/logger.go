// Package logger builds the zap loggers used across the server and CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger settings.
type Config struct {
	Level      string // debug, info, warn, error
	Encoding   string // json or console
	OutputPath string // file path; stdout when empty
}

// Logger is a zap logger whose level can be changed after construction.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// ParseLevel converts a level name to a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zap.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return zap.InfoLevel, fmt.Errorf("invalid log level %q", name)
	}
	return lvl, nil
}

// New creates a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	level := zap.NewAtomicLevel()
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		// The logger does not exist yet, report on stderr.
		fmt.Fprintf(os.Stderr, "%v, using 'info'\n", err)
	}
	level.SetLevel(lvl)

	encoding := strings.ToLower(cfg.Encoding)
	if encoding != "console" && encoding != "json" {
		encoding = "json"
	}

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = "stdout"
	}

	zapConfig := zap.Config{
		Level:             level,
		Development:       false,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{outputPath},
		ErrorOutputPaths:  []string{"stderr"},
	}

	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{Logger: l, level: level}, nil
}

// NewWithWriter creates a JSON Logger writing to w. Used by tests and by
// callers that capture output.
func NewWithWriter(w io.Writer, levelName string) *Logger {
	level := zap.NewAtomicLevel()
	if lvl, err := ParseLevel(levelName); err == nil {
		level.SetLevel(lvl)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), level)
	return &Logger{Logger: zap.New(core), level: level}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// Level returns the current level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// SetLevel changes the level of l and every logger derived from it.
func (l *Logger) SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Writer returns an io.Writer that logs each write as one info entry.
// It is handed to gorilla/handlers for access logging.
func (l *Logger) Writer() io.Writer {
	return &lineWriter{log: l.Logger}
}

type lineWriter struct {
	log *zap.Logger
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.log.Info(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}
