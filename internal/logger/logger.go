package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Config describes the capture destination for the child's combined
// stdout/stderr. If Path is empty and Dir is set, the file is Dir/<name>.log.
type Config struct {
	Path       string `mapstructure:"path"`
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ResolvePath returns the log file path for the named application.
func (c Config) ResolvePath(name string) string {
	if c.Path != "" {
		return c.Path
	}
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("%s.log", name))
}

// Writer returns a rotating writer for the named application's output,
// used when the wrapper stays resident and can pump the child's pipes.
func (c Config) Writer(name string) io.WriteCloser {
	return &lj.Logger{
		Filename:   c.ResolvePath(name),
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// NewConsole builds the wrapper's own logger: colored text on stderr.
func NewConsole(level slog.Level) *slog.Logger {
	h := NewColorTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}, false)
	return slog.New(h)
}
