//go:build windows

package process

import (
	"syscall"
	"unsafe"
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetProcessTimes  = kernel32.NewProc("GetProcessTimes")
	procOpenProcess      = kernel32.NewProc("OpenProcess")
	procTerminateProcess = kernel32.NewProc("TerminateProcess")
	procCloseHandle      = kernel32.NewProc("CloseHandle")
)

const (
	processTerminate        = 0x0001
	processQueryInformation = 0x0400
)

// procStartUnix returns the process creation time as Unix seconds, or 0 on
// error. FILETIME counts 100ns ticks since 1601-01-01 UTC.
func procStartUnix(pid int) int64 {
	if pid <= 0 {
		return 0
	}
	h, err := syscall.OpenProcess(processQueryInformation, false, uint32(pid))
	if err != nil {
		return 0
	}
	defer func() { _ = syscall.CloseHandle(h) }()

	var creation, exit, kernel, user syscall.Filetime
	ret, _, _ := procGetProcessTimes.Call(uintptr(h),
		uintptr(unsafe.Pointer(&creation)), uintptr(unsafe.Pointer(&exit)),
		uintptr(unsafe.Pointer(&kernel)), uintptr(unsafe.Pointer(&user)))
	if ret == 0 {
		return 0
	}
	const ticksPerSecond = 10000000
	const epochDiff = 11644473600 // seconds between 1601 and 1970 epochs
	ft := (uint64(creation.HighDateTime) << 32) | uint64(creation.LowDateTime)
	return int64(ft/ticksPerSecond) - epochDiff
}

func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	h, _, _ := procOpenProcess.Call(processQueryInformation, 0, uintptr(uint32(pid)))
	if h == 0 {
		return false
	}
	_, _, _ = procCloseHandle.Call(h)
	return true
}

// Signal terminates the process. Windows has no graceful termination signal,
// so SignalTerminate and SignalKill behave the same.
func (h *OSHandle) Signal(pid int, _ SignalKind) error {
	if pid <= 0 {
		return nil
	}
	if pid < 0 {
		pid = -pid
	}
	hProc, _, err := procOpenProcess.Call(processTerminate, 0, uintptr(uint32(pid)))
	if hProc == 0 {
		// Process already gone; treat as terminated.
		_ = err
		return nil
	}
	defer func() { _, _, _ = procCloseHandle.Call(hProc) }()
	ret, _, err := procTerminateProcess.Call(hProc, uintptr(1))
	if ret == 0 {
		return err
	}
	return nil
}
