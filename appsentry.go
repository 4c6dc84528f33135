package appsentry

import (
	"context"
	"time"

	cfg "github.com/appsentry/appsentry/internal/config"
	"github.com/appsentry/appsentry/internal/logger"
	"github.com/appsentry/appsentry/internal/process"
	"github.com/appsentry/appsentry/internal/store"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Spec = process.Spec

type Status = process.Status

type Config = cfg.Config

type LogConfig = logger.Config

// Store abstracts PID-record persistence; use NewMemoryStore for embedded
// tests and NewFileStore for real deployments.
type Store = store.Store

func NewFileStore(path string) Store { return store.NewFileStore(path) }
func NewMemoryStore() Store          { return store.NewMemoryStore() }

// Supervisor is a thin facade over internal/process.Supervisor, providing a
// stable public API for embedding.
type Supervisor struct{ inner *process.Supervisor }

// Options configures an embedded Supervisor.
type Options struct {
	Spec            Spec
	Store           Store
	LogPath         string
	StartSecs       time.Duration
	StopWait        time.Duration
	RestartInterval time.Duration
}

func New(o Options) *Supervisor {
	return &Supervisor{inner: process.NewSupervisor(process.Options{
		Spec:            o.Spec,
		Store:           o.Store,
		LogPath:         o.LogPath,
		StartSecs:       o.StartSecs,
		StopWait:        o.StopWait,
		RestartInterval: o.RestartInterval,
	})}
}

// Start launches the application; the bool reports an idempotent no-op on an
// already-running instance.
func (s *Supervisor) Start(ctx context.Context) (Status, bool, error) { return s.inner.Start(ctx) }

// Stop terminates the application; the bool is false when nothing was
// running.
func (s *Supervisor) Stop(ctx context.Context) (Status, bool, error) { return s.inner.Stop(ctx) }

func (s *Supervisor) Restart(ctx context.Context) (Status, error) { return s.inner.Restart(ctx) }

func (s *Supervisor) Status() (Status, error) { return s.inner.Status() }

func (s *Supervisor) IsRunning() (bool, int, error) { return s.inner.IsRunning() }

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) { return cfg.Load(path) }
