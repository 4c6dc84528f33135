package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/appsentry/appsentry/internal/logger"
	"github.com/appsentry/appsentry/internal/process"
	"github.com/appsentry/appsentry/internal/store"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix-only test")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	st := store.NewMemoryStore()
	r := New(Options{
		Spec:     process.Spec{Name: "app", Command: "sleep 10"},
		Store:    st,
		Log:      logger.Config{Dir: dir},
		StopWait: 2 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Wait until the child is registered.
	var rec store.Record
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var err error
		rec, err = st.Load()
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if rec.PID == 0 {
		t.Fatal("pid record never appeared")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, err := st.Load(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("record should be cleared on shutdown, got %v", err)
	}
	if process.NewOSHandle().Alive(rec.PID, rec.StartUnix) {
		t.Fatalf("child %d survived shutdown", rec.PID)
	}
}

func TestRunReturnsWhenChildExits(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	st := store.NewMemoryStore()
	r := New(Options{
		Spec:  process.Spec{Name: "app", Command: `sh -c 'echo out; exit 0'`},
		Store: st,
		Log:   logger.Config{Dir: dir},
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := st.Load(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("record should be cleared after exit, got %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil || len(b) == 0 {
		t.Fatalf("child output not captured: %v", err)
	}
}

func TestRunReportsChildFailure(t *testing.T) {
	requireUnix(t)
	st := store.NewMemoryStore()
	r := New(Options{
		Spec:  process.Spec{Name: "app", Command: "/bin/false"},
		Store: st,
		Log:   logger.Config{Dir: t.TempDir()},
	})
	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error for failing child")
	}
}

func TestRunAutoRestart(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	st := store.NewMemoryStore()
	r := New(Options{
		Spec:            process.Spec{Name: "app", Command: `sh -c 'sleep 0.1'`},
		Store:           st,
		Log:             logger.Config{Dir: dir},
		AutoRestart:     true,
		RestartInterval: 50 * time.Millisecond,
		StopWait:        time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// First child exits after 100ms; auto-restart keeps Run alive until the
	// context deadline.
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
