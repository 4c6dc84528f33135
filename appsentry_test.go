package appsentry

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestEmbeddedLifecycle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix-only test")
	}
	dir := t.TempDir()
	sup := New(Options{
		Spec:      Spec{Name: "demo", Command: "sleep 5"},
		Store:     NewMemoryStore(),
		LogPath:   filepath.Join(dir, "demo.log"),
		StartSecs: 300 * time.Millisecond,
		StopWait:  time.Second,
	})

	st, already, err := sup.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if already || !st.Running || st.PID <= 0 {
		t.Fatalf("unexpected status: %+v already=%v", st, already)
	}

	running, pid, err := sup.IsRunning()
	if err != nil || !running || pid != st.PID {
		t.Fatalf("IsRunning: %v %d %v", running, pid, err)
	}

	if _, stopped, err := sup.Stop(context.Background()); err != nil || !stopped {
		t.Fatalf("Stop: stopped=%v err=%v", stopped, err)
	}
	if running, _, _ := sup.IsRunning(); running {
		t.Fatal("still running after stop")
	}
}

func TestLoadConfigFacade(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}
