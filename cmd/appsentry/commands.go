package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/appsentry/appsentry/internal/config"
	"github.com/appsentry/appsentry/internal/history"
	"github.com/appsentry/appsentry/internal/process"
	"github.com/appsentry/appsentry/internal/store"
)

// command binds the subcommand handlers to the shared flag set.
type command struct {
	flags *GlobalFlags
}

// loadConfig resolves the effective configuration: file first (explicit
// --config, else ./appsentry.toml when present), flags override.
func (c *command) loadConfig() (config.Config, error) {
	f := c.flags
	cfg := config.Default()
	switch {
	case f.ConfigPath != "":
		var err error
		cfg, err = config.Load(f.ConfigPath)
		if err != nil {
			return config.Config{}, err
		}
	default:
		if _, err := os.Stat(defaultConfigFile); err == nil {
			cfg, err = config.Load(defaultConfigFile)
			if err != nil {
				return config.Config{}, err
			}
		}
	}
	if f.Name != "" {
		cfg.App.Name = f.Name
	}
	if f.CmdStr != "" {
		cfg.App.Command = f.CmdStr
	}
	if f.WorkDir != "" {
		cfg.App.WorkDir = f.WorkDir
	}
	if f.PIDFile != "" {
		cfg.PIDFile = f.PIDFile
	}
	if f.LogFile != "" {
		cfg.Log.Path = f.LogFile
	}
	if f.StartSecs > 0 {
		cfg.StartSecs = f.StartSecs
	}
	if f.StopWait > 0 {
		cfg.StopWait = f.StopWait
	}
	if f.RestartInterval > 0 {
		cfg.RestartInterval = f.RestartInterval
	}
	cfg.Normalize()
	return cfg, nil
}

func (c *command) supervisor(cfg config.Config) *process.Supervisor {
	return process.NewSupervisor(process.Options{
		Spec:            cfg.App,
		Store:           store.NewFileStore(cfg.PIDFile),
		LogPath:         cfg.LogPath(),
		StartSecs:       cfg.StartSecs,
		StopWait:        cfg.StopWait,
		RestartInterval: cfg.RestartInterval,
		Logger:          c.logger(),
	})
}

func (c *command) Start(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.App.Command == "" {
		return errors.New("no command configured: set command in the config file or pass --cmd")
	}
	log := c.logger()
	sup := c.supervisor(cfg)

	st, already, err := sup.Start(ctx)
	if err != nil {
		c.recordEvent(ctx, cfg, history.EventStartFailed, 0, err.Error())
		return fmt.Errorf("start failed: %w", err)
	}
	if already {
		log.Warn("already running", "name", st.Name, "pid", st.PID)
		return nil
	}
	c.recordEvent(ctx, cfg, history.EventStarted, st.PID, "")
	log.Info("started", "name", st.Name, "pid", st.PID, "log", st.LogPath)
	return nil
}

func (c *command) Stop(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	log := c.logger()
	sup := c.supervisor(cfg)

	st, stopped, err := sup.Stop(ctx)
	if err != nil {
		c.recordEvent(ctx, cfg, history.EventStopFailed, 0, err.Error())
		return fmt.Errorf("stop failed: %w", err)
	}
	if !stopped {
		log.Warn("not running", "name", cfg.App.Name)
		return nil
	}
	c.recordEvent(ctx, cfg, history.EventStopped, st.PID, "")
	log.Info("stopped", "name", cfg.App.Name)
	return nil
}

func (c *command) Restart(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.App.Command == "" {
		return errors.New("no command configured: set command in the config file or pass --cmd")
	}
	log := c.logger()
	sup := c.supervisor(cfg)

	st, err := sup.Restart(ctx)
	if err != nil {
		return fmt.Errorf("restart failed: %w", err)
	}
	c.recordEvent(ctx, cfg, history.EventRestarted, st.PID, "")
	log.Info("restarted", "name", st.Name, "pid", st.PID, "log", st.LogPath)
	return nil
}

func (c *command) Status() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	log := c.logger()
	sup := c.supervisor(cfg)

	st, err := sup.Status()
	if err != nil {
		return err
	}
	if st.Running {
		log.Info("running", "name", st.Name, "pid", st.PID)
	} else {
		log.Warn("not running", "name", st.Name)
	}
	return nil
}

func (c *command) History(ctx context.Context, f HistoryFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return errors.New("history is not configured: set [history] path in the config file")
	}
	hl, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = hl.Close() }()

	events, err := hl.Recent(ctx, cfg.App.Name, f.Limit)
	if err != nil {
		return err
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-12s  pid=%d", ev.At.Local().Format("2006-01-02 15:04:05"), ev.Kind, ev.PID)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Println(line)
	}
	return nil
}

// recordEvent appends to the sqlite lifecycle log when configured.
// Best-effort: history must never fail a lifecycle operation.
func (c *command) recordEvent(ctx context.Context, cfg config.Config, kind string, pid int, detail string) {
	if cfg.History.Path == "" {
		return
	}
	hl, err := history.Open(cfg.History.Path)
	if err != nil {
		c.logger().Debug("history unavailable", "err", err)
		return
	}
	defer func() { _ = hl.Close() }()
	if err := hl.Append(ctx, history.Event{Name: cfg.App.Name, PID: pid, Kind: kind, Detail: detail}); err != nil {
		c.logger().Debug("history append failed", "err", err)
	}
}
