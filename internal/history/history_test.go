package history

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestAppendAndRecent(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	events := []Event{
		{Name: "app", PID: 100, Kind: EventStarted},
		{Name: "app", PID: 100, Kind: EventStopped, Detail: "exit status 1"},
		{Name: "app", PID: 101, Kind: EventRestarted},
	}
	for _, ev := range events {
		if err := l.Append(ctx, ev); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := l.Recent(ctx, "app", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	// Most recent first.
	if got[0].Kind != EventRestarted || got[0].PID != 101 {
		t.Fatalf("ordering wrong: %+v", got[0])
	}
	if got[1].Detail != "exit status 1" {
		t.Fatalf("detail lost: %+v", got[1])
	}
	if got[0].At.IsZero() {
		t.Fatal("timestamp not recorded")
	}
}

func TestRecentLimitAndFilter(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := l.Append(ctx, Event{Name: "a", PID: i, Kind: EventStarted}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := l.Append(ctx, Event{Name: "b", PID: 99, Kind: EventStarted}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := l.Recent(ctx, "a", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit not applied: %d", len(got))
	}
	all, err := l.Recent(ctx, "", 100)
	if err != nil {
		t.Fatalf("Recent all: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 total events, got %d", len(all))
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
