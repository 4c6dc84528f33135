//go:build !windows

package process

import (
	"errors"
	"syscall"
)

// pidAlive reports whether a process with the given pid exists. EPERM still
// means the process is there, we just may not own it. A zombie has exited
// for our purposes even though the kernel keeps its slot until it is reaped.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	if isZombie(pid) {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func (h *OSHandle) Signal(pid int, kind SignalKind) error {
	if pid <= 0 {
		return syscall.ESRCH
	}
	sig := syscall.SIGTERM
	if kind == SignalKill {
		sig = syscall.SIGKILL
	}
	// The child was started as a session/group leader, so signaling -pid
	// reaches the whole group. Fall back to the single process when no group
	// with that id exists.
	if err := syscall.Kill(-pid, sig); err == nil || !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return syscall.Kill(pid, sig)
}
