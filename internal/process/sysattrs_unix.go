//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// configureDetached starts the child in a new session (setsid) so it has no
// controlling terminal and survives the wrapper's exit.
func configureDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// ConfigureForeground places the child in its own process group so the whole
// group can be signaled while the wrapper keeps supervising it.
func ConfigureForeground(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
