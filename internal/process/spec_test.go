package process

import (
	"runtime"
	"strings"
	"testing"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("unix-only test")
	}
}

func TestBuildCommandSimple(t *testing.T) {
	requireUnix(t)
	s := Spec{Command: "sleep 5"}
	cmd := s.BuildCommand()
	if len(cmd.Args) != 2 || cmd.Args[0] != "sleep" || cmd.Args[1] != "5" {
		t.Fatalf("unexpected args: %v", cmd.Args)
	}
}

func TestBuildCommandMetachars(t *testing.T) {
	requireUnix(t)
	s := Spec{Command: "echo hi > /tmp/out"}
	cmd := s.BuildCommand()
	if cmd.Args[0] != "/bin/sh" || cmd.Args[1] != "-c" {
		t.Fatalf("metacharacters must go through the shell: %v", cmd.Args)
	}
}

func TestBuildCommandExplicitShell(t *testing.T) {
	requireUnix(t)
	s := Spec{Command: `sh -c 'echo hi && sleep 1'`}
	cmd := s.BuildCommand()
	if cmd.Args[0] != "/bin/sh" || cmd.Args[1] != "-c" {
		t.Fatalf("explicit shell not honored: %v", cmd.Args)
	}
	// No double wrapping and no stray outer quotes.
	if strings.Contains(cmd.Args[2], "sh -c") || strings.HasPrefix(cmd.Args[2], "'") {
		t.Fatalf("script mangled: %q", cmd.Args[2])
	}
}

func TestBuildCommandEmpty(t *testing.T) {
	s := Spec{}
	cmd := s.BuildCommand()
	if cmd == nil {
		t.Fatal("nil command for empty spec")
	}
}

func TestCutExplicitShell(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`sh -c 'echo a'`, "echo a", true},
		{`/bin/sh -c "echo b"`, "echo b", true},
		{`sleep 1`, "", false},
	}
	for _, c := range cases {
		got, ok := cutExplicitShell(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("cutExplicitShell(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
