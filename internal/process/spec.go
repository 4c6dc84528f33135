package process

import (
	"os/exec"
	"strings"
)

// Spec describes the one application the wrapper manages.
type Spec struct {
	Name    string   `json:"name" mapstructure:"name"`
	Command string   `json:"command" mapstructure:"command"`
	WorkDir string   `json:"work_dir" mapstructure:"workdir"`
	Env     []string `json:"env" mapstructure:"env"`
}

// BuildCommand constructs an *exec.Cmd for the spec's command line.
// It avoids invoking a shell when not necessary, and it respects an explicit
// shell invocation already present in the command string (e.g. "sh -c '...'")
// so the script is not wrapped in a second shell layer.
func (s *Spec) BuildCommand() *exec.Cmd {
	cmdStr := strings.TrimSpace(s.Command)
	if cmdStr == "" {
		return trueCommand()
	}
	if script, ok := cutExplicitShell(cmdStr); ok {
		return shellCommand(script)
	}
	// Shell metacharacters require a shell to interpret them.
	if strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~") {
		return shellCommand(cmdStr)
	}
	parts := strings.Fields(cmdStr)
	// #nosec G204 -- the command line is operator-supplied configuration
	return exec.Command(parts[0], parts[1:]...)
}

// cutExplicitShell detects "sh -c <ARG>" style prefixes and returns the
// argument that should be handed to the shell directly. A single pair of
// wrapping quotes is stripped so redirections inside the script still parse.
func cutExplicitShell(cmdStr string) (string, bool) {
	trim := strings.TrimLeft(cmdStr, " \t")
	for _, p := range []string{"sh -c ", "/bin/sh -c ", "/usr/bin/sh -c "} {
		if strings.HasPrefix(trim, p) {
			after := trim[len(p):]
			if n := len(after); n >= 2 {
				if (after[0] == '\'' && after[n-1] == '\'') || (after[0] == '"' && after[n-1] == '"') {
					after = after[1 : n-1]
				}
			}
			return after, true
		}
	}
	return "", false
}
