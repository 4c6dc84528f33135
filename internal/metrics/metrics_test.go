package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAndRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Re-registering is a no-op.
	if err := Register(reg); err != nil {
		t.Fatalf("second Register: %v", err)
	}

	SetUp("app", true)
	if got := testutil.ToFloat64(appUp.WithLabelValues("app")); got != 1 {
		t.Fatalf("up gauge = %v, want 1", got)
	}
	SetUp("app", false)
	if got := testutil.ToFloat64(appUp.WithLabelValues("app")); got != 0 {
		t.Fatalf("up gauge = %v, want 0", got)
	}

	IncStart("app")
	IncStop("app")
	IncRestart("app")
	if got := testutil.ToFloat64(appStarts.WithLabelValues("app")); got < 1 {
		t.Fatalf("starts counter = %v, want >= 1", got)
	}
}

func TestHandler(t *testing.T) {
	if Handler() == nil {
		t.Fatal("nil metrics handler")
	}
}
