// Package runner implements resident supervision: the wrapper stays in the
// foreground, pipes the child's output through rotating logs, restarts it on
// unexpected exits when configured, and shuts it down on cancellation.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/appsentry/appsentry/internal/history"
	"github.com/appsentry/appsentry/internal/logger"
	"github.com/appsentry/appsentry/internal/metrics"
	"github.com/appsentry/appsentry/internal/process"
	"github.com/appsentry/appsentry/internal/store"
)

type Options struct {
	Spec            process.Spec
	Store           store.Store
	Log             logger.Config
	AutoRestart     bool
	RestartInterval time.Duration
	StopWait        time.Duration
	Logger          *slog.Logger
	History         *history.Log // optional
}

type Runner struct {
	spec            process.Spec
	store           store.Store
	handle          process.Handle
	logCfg          logger.Config
	autoRestart     bool
	restartInterval time.Duration
	stopWait        time.Duration
	log             *slog.Logger
	hist            *history.Log
}

func New(o Options) *Runner {
	r := &Runner{
		spec:            o.Spec,
		store:           o.Store,
		handle:          process.NewOSHandle(),
		logCfg:          o.Log,
		autoRestart:     o.AutoRestart,
		restartInterval: o.RestartInterval,
		stopWait:        o.StopWait,
		log:             o.Logger,
	}
	r.hist = o.History
	if r.restartInterval <= 0 {
		r.restartInterval = time.Second
	}
	if r.stopWait <= 0 {
		r.stopWait = 5 * time.Second
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// Run supervises the child until ctx is canceled or, with auto-restart off,
// until the child exits. The PID record stays in sync with the live child so
// status/stop invocations from other terminals observe it.
func (r *Runner) Run(ctx context.Context) error {
	w := r.logCfg.Writer(r.spec.Name)
	defer func() { _ = w.Close() }()

	name := r.spec.Name
	first := true
	for {
		cmd, err := r.spawn(w)
		if err != nil {
			r.event(history.EventStartFailed, 0, err.Error())
			return fmt.Errorf("launching %s: %w", name, err)
		}
		pid := cmd.Process.Pid
		if err := r.store.Save(store.Record{PID: pid, StartUnix: process.StartTime(pid)}); err != nil {
			r.log.Warn("pid record not saved", "err", err)
		}
		metrics.SetUp(name, true)
		if first {
			metrics.IncStart(name)
			r.event(history.EventStarted, pid, "")
		} else {
			metrics.IncRestart(name)
			r.event(history.EventRestarted, pid, "")
		}
		r.log.Info("application running", "name", name, "pid", pid)

		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()

		select {
		case <-ctx.Done():
			err := r.shutdown(pid, done)
			metrics.SetUp(name, false)
			metrics.IncStop(name)
			r.event(history.EventStopped, pid, "")
			_ = r.store.Clear()
			return err
		case exitErr := <-done:
			metrics.SetUp(name, false)
			metrics.IncStop(name)
			detail := ""
			if exitErr != nil {
				detail = exitErr.Error()
			}
			r.event(history.EventStopped, pid, detail)
			if !r.autoRestart {
				_ = r.store.Clear()
				if exitErr != nil {
					return fmt.Errorf("%s exited: %w", name, exitErr)
				}
				return nil
			}
			r.log.Warn("application exited, restarting", "name", name, "pid", pid, "err", exitErr)
			first = false
			select {
			case <-ctx.Done():
				_ = r.store.Clear()
				return nil
			case <-time.After(r.restartInterval):
			}
		}
	}
}

func (r *Runner) spawn(w io.Writer) (*exec.Cmd, error) {
	cmd := r.spec.BuildCommand()
	if r.spec.WorkDir != "" {
		cmd.Dir = r.spec.WorkDir
	}
	if len(r.spec.Env) > 0 {
		cmd.Env = append(os.Environ(), r.spec.Env...)
	}
	process.ConfigureForeground(cmd)
	cmd.Stdin = nil
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (r *Runner) shutdown(pid int, done <-chan error) error {
	_ = r.handle.Signal(pid, process.SignalTerminate)
	select {
	case <-done:
		return nil
	case <-time.After(r.stopWait):
	}
	_ = r.handle.Signal(pid, process.SignalKill)
	select {
	case <-done:
		return nil
	case <-time.After(2 * time.Second):
		return fmt.Errorf("%w: pid %d", process.ErrStopFailed, pid)
	}
}

func (r *Runner) event(kind string, pid int, detail string) {
	if r.hist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.hist.Append(ctx, history.Event{Name: r.spec.Name, PID: pid, Kind: kind, Detail: detail}); err != nil {
		r.log.Warn("history append failed", "err", err)
	}
}
