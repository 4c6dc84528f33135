package process

// SignalKind selects the termination signal delivered by Handle.Signal.
type SignalKind int

const (
	// SignalTerminate requests a graceful shutdown (SIGTERM on Unix).
	SignalTerminate SignalKind = iota
	// SignalKill forcefully terminates the process (SIGKILL on Unix).
	SignalKill
)

// SpawnResult identifies a freshly launched child.
type SpawnResult struct {
	PID       int
	StartUnix int64
}

// Handle isolates OS process primitives (spawn, liveness probe, signal
// delivery) so the supervisor can be exercised against a fake in tests.
type Handle interface {
	// Spawn launches the spec's command detached from the calling session
	// with combined stdout/stderr redirected to logPath, truncated first so
	// every start begins a fresh log. An empty logPath discards output.
	Spawn(spec Spec, logPath string) (SpawnResult, error)
	// Alive reports whether pid refers to a live process. When startUnix is
	// non-zero it is compared against the live process's start time so a
	// recycled PID is not mistaken for the managed child.
	Alive(pid int, startUnix int64) bool
	// Signal delivers kind to pid's process group (best effort on platforms
	// without groups).
	Signal(pid int, kind SignalKind) error
}

// OSHandle is the production Handle backed by real OS primitives.
type OSHandle struct{}

func NewOSHandle() *OSHandle { return &OSHandle{} }

// StartTime returns the start time of pid as Unix seconds, 0 when unknown.
func StartTime(pid int) int64 { return procStartUnix(pid) }

func (h *OSHandle) Alive(pid int, startUnix int64) bool {
	if pid <= 0 {
		return false
	}
	if startUnix > 0 {
		if cur := procStartUnix(pid); cur > 0 && cur != startUnix {
			return false // PID reused by an unrelated process
		}
	}
	return pidAlive(pid)
}
