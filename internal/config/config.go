package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/appsentry/appsentry/internal/logger"
	"github.com/appsentry/appsentry/internal/process"
)

// HistoryConfig enables the sqlite lifecycle-event log when Path is set.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// ServeConfig enables the read-only status HTTP endpoint in run mode.
type ServeConfig struct {
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
}

// Config is the top-level TOML structure.
//
//	name = "webfetcher"
//	command = "python3 main.py"
//	workdir = "/srv/webfetcher"
//	pidfile = "webfetcher.pid"
//	startsecs = "1s"
//	stop_wait = "5s"
//
//	[log]
//	path = "webfetcher.log"
type Config struct {
	App             process.Spec  `mapstructure:",squash"`
	PIDFile         string        `mapstructure:"pidfile"`
	StartSecs       time.Duration `mapstructure:"startsecs"`
	StopWait        time.Duration `mapstructure:"stop_wait"`
	RestartInterval time.Duration `mapstructure:"restart_interval"`
	AutoRestart     bool          `mapstructure:"autorestart"`
	Log             logger.Config `mapstructure:"log"`
	History         HistoryConfig `mapstructure:"history"`
	Serve           ServeConfig   `mapstructure:"serve"`
}

// Default returns the compile-time defaults; every field can run without a
// config file as long as a command is supplied.
func Default() Config {
	return Config{
		App:             process.Spec{Name: "app"},
		StartSecs:       time.Second,
		StopWait:        5 * time.Second,
		RestartInterval: time.Second,
	}
}

// Load reads TOML from path and fills unset fields from defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize derives dependent defaults: the PID file and log file names
// follow the application name unless set explicitly.
func (c *Config) Normalize() {
	if c.App.Name == "" {
		c.App.Name = "app"
	}
	if c.PIDFile == "" {
		c.PIDFile = c.App.Name + ".pid"
	}
	if c.StartSecs <= 0 {
		c.StartSecs = time.Second
	}
	if c.StopWait <= 0 {
		c.StopWait = 5 * time.Second
	}
	if c.RestartInterval <= 0 {
		c.RestartInterval = time.Second
	}
	if c.Serve.Listen != "" && c.Serve.BasePath == "" {
		c.Serve.BasePath = "/api"
	}
}

// LogPath returns the resolved child log destination.
func (c *Config) LogPath() string {
	return c.Log.ResolvePath(c.App.Name)
}
