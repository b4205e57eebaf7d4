// Package logging builds the zerolog logger of the formmanager command:
// console output on stderr and an optional rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	// Level is a zerolog level name ("debug", "info", ...).
	Level string `mapstructure:"level" yaml:"level"`
	// Console enables output on the console writer.
	Console bool `mapstructure:"console" yaml:"console"`
	// JSON switches the console output from the pretty writer to JSON lines.
	JSON bool `mapstructure:"json" yaml:"json"`
	// File is the rotated log file. Empty disables file output.
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// DefaultConfig logs info and above to the console only.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Console:    true,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger writing to console (usually os.Stderr) and the
// configured file. The returned closer releases the file.
func New(cfg Config, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if name := strings.TrimSpace(cfg.Level); name != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging: level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	if cfg.Console && console != nil {
		if cfg.JSON {
			writers = append(writers, console)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
		}
	}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging: create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
		closer = file
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		return zerolog.Nop(), closer, nil
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closer, nil
}
