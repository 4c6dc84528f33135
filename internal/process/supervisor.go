package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/appsentry/appsentry/internal/store"
)

var (
	// ErrStartFailed means the child exited before the confirmation window
	// elapsed.
	ErrStartFailed = errors.New("application exited during start confirmation")
	// ErrStopFailed means neither the graceful nor the forceful signal got
	// the child to terminate.
	ErrStopFailed = errors.New("application did not terminate")
)

const (
	confirmPollInterval = 100 * time.Millisecond
	killWait            = 2 * time.Second
)

// Options configures a Supervisor. Zero durations fall back to defaults.
type Options struct {
	Spec            Spec
	Store           store.Store
	Handle          Handle
	LogPath         string        // child's combined stdout/stderr destination
	StartSecs       time.Duration // how long the child must stay up after start
	StopWait        time.Duration // grace period before SIGKILL escalation
	RestartInterval time.Duration // pause between stop and start on restart
	Logger          *slog.Logger
}

// Status is the observable state of the managed application.
type Status struct {
	Name    string `json:"name"`
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	LogPath string `json:"log_path,omitempty"`
}

// Supervisor launches, probes, and terminates one external application,
// persisting its identity in a PID record between invocations.
type Supervisor struct {
	spec            Spec
	store           store.Store
	handle          Handle
	logPath         string
	startSecs       time.Duration
	stopWait        time.Duration
	restartInterval time.Duration
	log             *slog.Logger
}

func NewSupervisor(o Options) *Supervisor {
	s := &Supervisor{
		spec:            o.Spec,
		store:           o.Store,
		handle:          o.Handle,
		logPath:         o.LogPath,
		startSecs:       o.StartSecs,
		stopWait:        o.StopWait,
		restartInterval: o.RestartInterval,
		log:             o.Logger,
	}
	if s.handle == nil {
		s.handle = NewOSHandle()
	}
	if s.startSecs <= 0 {
		s.startSecs = time.Second
	}
	if s.stopWait <= 0 {
		s.stopWait = 5 * time.Second
	}
	if s.restartInterval <= 0 {
		s.restartInterval = time.Second
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// liveRecord loads the PID record and probes it. A record pointing at a dead
// or recycled PID is deleted (self-healing) and reported as absent.
func (s *Supervisor) liveRecord() (store.Record, bool, error) {
	rec, err := s.store.Load()
	if errors.Is(err, store.ErrNotFound) {
		return store.Record{}, false, nil
	}
	if err != nil {
		return store.Record{}, false, err
	}
	if s.handle.Alive(rec.PID, rec.StartUnix) {
		return rec, true, nil
	}
	s.log.Debug("removing stale pid record", "pid", rec.PID)
	if err := s.store.Clear(); err != nil {
		return store.Record{}, false, err
	}
	return store.Record{}, false, nil
}

// IsRunning reports whether the managed application is alive, deleting a
// stale PID record as a side effect.
func (s *Supervisor) IsRunning() (bool, int, error) {
	rec, ok, err := s.liveRecord()
	return ok, rec.PID, err
}

// Start launches the application unless it is already running. The returned
// Status has Running=true either way; callers distinguish a fresh launch
// from the idempotent no-op via the second return value.
func (s *Supervisor) Start(ctx context.Context) (Status, bool, error) {
	unlock := s.tryLock(ctx)
	defer unlock()
	return s.startLocked(ctx)
}

func (s *Supervisor) startLocked(ctx context.Context) (Status, bool, error) {
	rec, running, err := s.liveRecord()
	if err != nil {
		return Status{}, false, err
	}
	if running {
		return s.status(rec.PID, true), true, nil
	}

	res, err := s.handle.Spawn(s.spec, s.logPath)
	if err != nil {
		return Status{}, false, fmt.Errorf("launching %s: %w", s.spec.Name, err)
	}
	if err := s.store.Save(store.Record{PID: res.PID, StartUnix: res.StartUnix}); err != nil {
		return Status{}, false, err
	}
	s.log.Debug("spawned", "name", s.spec.Name, "pid", res.PID)

	// Give early-exit failures the confirmation window to surface.
	if err := s.confirmUp(ctx, res); err != nil {
		_ = s.store.Clear()
		return Status{}, false, err
	}
	return s.status(res.PID, true), false, nil
}

func (s *Supervisor) confirmUp(ctx context.Context, res SpawnResult) error {
	deadline := time.Now().Add(s.startSecs)
	for time.Now().Before(deadline) {
		if !s.handle.Alive(res.PID, res.StartUnix) {
			return fmt.Errorf("%w (pid %d, within %s)", ErrStartFailed, res.PID, s.startSecs)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(confirmPollInterval):
		}
	}
	if !s.handle.Alive(res.PID, res.StartUnix) {
		return fmt.Errorf("%w (pid %d, within %s)", ErrStartFailed, res.PID, s.startSecs)
	}
	return nil
}

// Stop terminates the application: SIGTERM, then SIGKILL after the grace
// period. The second return value is false when nothing was running.
func (s *Supervisor) Stop(ctx context.Context) (Status, bool, error) {
	unlock := s.tryLock(ctx)
	defer unlock()
	return s.stopLocked(ctx)
}

func (s *Supervisor) stopLocked(ctx context.Context) (Status, bool, error) {
	rec, running, err := s.liveRecord()
	if err != nil {
		return Status{}, false, err
	}
	if !running {
		return s.status(0, false), false, nil
	}

	if err := s.handle.Signal(rec.PID, SignalTerminate); err == nil {
		if s.waitGone(ctx, rec, s.stopWait) {
			return s.finishStop(rec)
		}
	} else {
		s.log.Debug("graceful signal failed, escalating", "pid", rec.PID, "err", err)
	}

	if err := s.handle.Signal(rec.PID, SignalKill); err != nil {
		return Status{}, true, fmt.Errorf("%w: kill pid %d: %v", ErrStopFailed, rec.PID, err)
	}
	if !s.waitGone(ctx, rec, killWait) {
		return Status{}, true, fmt.Errorf("%w: pid %d survived SIGKILL", ErrStopFailed, rec.PID)
	}
	return s.finishStop(rec)
}

func (s *Supervisor) finishStop(rec store.Record) (Status, bool, error) {
	if err := s.store.Clear(); err != nil {
		return Status{}, true, err
	}
	s.log.Debug("stopped", "name", s.spec.Name, "pid", rec.PID)
	return s.status(0, false), true, nil
}

func (s *Supervisor) waitGone(ctx context.Context, rec store.Record, wait time.Duration) bool {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if !s.handle.Alive(rec.PID, rec.StartUnix) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(confirmPollInterval):
		}
	}
	return !s.handle.Alive(rec.PID, rec.StartUnix)
}

// Restart stops the application, pauses, and starts it again. Fail-fast: a
// stop failure aborts before the start is attempted.
func (s *Supervisor) Restart(ctx context.Context) (Status, error) {
	unlock := s.tryLock(ctx)
	defer unlock()

	if _, _, err := s.stopLocked(ctx); err != nil {
		return Status{}, err
	}
	select {
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-time.After(s.restartInterval):
	}
	st, _, err := s.startLocked(ctx)
	return st, err
}

// Status reports the current state. Read-only apart from the stale-record
// cleanup inherited from the liveness probe.
func (s *Supervisor) Status() (Status, error) {
	rec, running, err := s.liveRecord()
	if err != nil {
		return Status{}, err
	}
	if !running {
		return s.status(0, false), nil
	}
	return s.status(rec.PID, true), nil
}

func (s *Supervisor) status(pid int, running bool) Status {
	st := Status{Name: s.spec.Name, Running: running, PID: pid}
	if running {
		st.LogPath = s.logPath
	}
	return st
}

// tryLock takes the store's advisory lock. Failure is logged, not fatal:
// concurrent invocations remain an accepted race where locking is
// unavailable.
func (s *Supervisor) tryLock(ctx context.Context) func() {
	lctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	unlock, err := s.store.Lock(lctx)
	if err != nil {
		s.log.Debug("pid record lock unavailable", "err", err)
		return func() {}
	}
	return unlock
}
