package process

import (
	"os"
	"path/filepath"
)

func (h *OSHandle) Spawn(spec Spec, logPath string) (SpawnResult, error) {
	cmd := spec.BuildCommand()
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	configureDetached(cmd)
	cmd.Stdin = nil

	var logF *os.File
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
			return SpawnResult{}, err
		}
		// Fresh log on every start.
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) // #nosec G302 G304
		if err != nil {
			return SpawnResult{}, err
		}
		logF = f
		cmd.Stdout = f
		cmd.Stderr = f
	} else {
		null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
		if err != nil {
			return SpawnResult{}, err
		}
		logF = null
		cmd.Stdout = null
		cmd.Stderr = null
	}

	if err := cmd.Start(); err != nil {
		_ = logF.Close()
		return SpawnResult{}, err
	}
	// The child holds its own descriptor now.
	_ = logF.Close()

	pid := cmd.Process.Pid
	res := SpawnResult{PID: pid, StartUnix: procStartUnix(pid)}

	// Reap in the background so an early exit is observable during the
	// confirmation window instead of lingering as a zombie.
	go func() { _ = cmd.Wait() }()

	return res, nil
}
