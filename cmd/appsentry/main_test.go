package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRootWithoutArgsFails(t *testing.T) {
	root := buildRoot()
	root.SetArgs([]string{})
	if err := root.Execute(); err == nil {
		t.Fatal("no arguments must be an error")
	}
}

func TestRootUnknownCommandFails(t *testing.T) {
	root := buildRoot()
	root.SetArgs([]string{"bogus"})
	if err := root.Execute(); err == nil {
		t.Fatal("unknown command must be an error")
	}
}

func TestRootHasExpectedSubcommands(t *testing.T) {
	root := buildRoot()
	want := map[string]bool{"start": false, "stop": false, "restart": false, "status": false, "run": false, "history": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q missing", name)
		}
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "appsentry.toml")
	body := `
name = "svc"
command = "sleep 5"
startsecs = "2s"
`
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c := &command{flags: &GlobalFlags{
		ConfigPath: cfgPath,
		CmdStr:     "sleep 9",
		PIDFile:    filepath.Join(dir, "custom.pid"),
		StartSecs:  3 * time.Second,
	}}
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.App.Name != "svc" {
		t.Fatalf("name from file lost: %q", cfg.App.Name)
	}
	if cfg.App.Command != "sleep 9" {
		t.Fatalf("--cmd must override the file: %q", cfg.App.Command)
	}
	if cfg.PIDFile != filepath.Join(dir, "custom.pid") {
		t.Fatalf("--pidfile must override: %q", cfg.PIDFile)
	}
	if cfg.StartSecs != 3*time.Second {
		t.Fatalf("--startsecs must override: %v", cfg.StartSecs)
	}
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	c := &command{flags: &GlobalFlags{Name: "demo", CmdStr: "sleep 1"}}
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.App.Name != "demo" || cfg.App.Command != "sleep 1" {
		t.Fatalf("flag config lost: %+v", cfg.App)
	}
	if cfg.PIDFile != "demo.pid" {
		t.Fatalf("derived pidfile: %q", cfg.PIDFile)
	}
}

func TestStartWithoutCommandFails(t *testing.T) {
	c := &command{flags: &GlobalFlags{Name: "demo"}}
	if err := c.Start(t.Context()); err == nil {
		t.Fatal("start without a configured command must fail")
	}
}
