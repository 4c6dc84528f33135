package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/appsentry/appsentry/internal/history"
	"github.com/appsentry/appsentry/internal/metrics"
	"github.com/appsentry/appsentry/internal/runner"
	"github.com/appsentry/appsentry/internal/server"
	"github.com/appsentry/appsentry/internal/store"
)

// Run supervises the application in the foreground until SIGINT/SIGTERM.
func (c *command) Run(ctx context.Context, f RunFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.App.Command == "" {
		return errors.New("no command configured: set command in the config file or pass --cmd")
	}
	log := c.logger()

	if f.Listen != "" {
		cfg.Serve.Listen = f.Listen
	}
	cfg.Normalize()
	if f.AutoRestart {
		cfg.AutoRestart = true
	}

	var hist *history.Log
	if cfg.History.Path != "" {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = hist.Close() }()
	}

	st := store.NewFileStore(cfg.PIDFile)

	// Refuse to supervise on top of an already-running instance.
	sup := c.supervisor(cfg)
	if running, pid, err := sup.IsRunning(); err != nil {
		return err
	} else if running {
		return fmt.Errorf("already running (pid %d)", pid)
	}

	sctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if cfg.Serve.Listen != "" {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return err
		}
		srv = server.NewServer(cfg.Serve.Listen, cfg.Serve.BasePath, sup.Status)
		log.Info("serving status", "listen", cfg.Serve.Listen, "base", cfg.Serve.BasePath)
		defer func() {
			shctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shctx)
		}()
	}

	r := runner.New(runner.Options{
		Spec:            cfg.App,
		Store:           st,
		Log:             cfg.Log,
		AutoRestart:     cfg.AutoRestart,
		RestartInterval: cfg.RestartInterval,
		StopWait:        cfg.StopWait,
		Logger:          log,
		History:         hist,
	})
	return r.Run(sctx)
}
