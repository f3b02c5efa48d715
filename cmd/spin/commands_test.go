//go:build !(js && wasm)

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()
	want := map[string]bool{"run": false, "init": false, "logs": false, "version": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := runCmd()
	for _, name := range []string{"steps", "max", "interval", "repeat", "fail-at", "metrics-addr", "no-tui", "no-log"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("run is missing --%s", name)
		}
	}
	if got := cmd.Flags().Lookup("repeat").DefValue; got != "1" {
		t.Errorf("--repeat default = %s, want 1", got)
	}
}

func TestVersionCmd(t *testing.T) {
	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := out.String(); got != "spin dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	root := rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "spin.toml")); err != nil {
		t.Errorf("spin.toml not created: %v", err)
	}
	if !strings.Contains(out.String(), "spin.toml") {
		t.Errorf("init output should name spin.toml, got %q", out.String())
	}

	// Second run finds everything in place.
	out.Reset()
	root = rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to create") {
		t.Errorf("second init output = %q", out.String())
	}
}

func TestRunThenLogs(t *testing.T) {
	chdir(t, t.TempDir())

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--no-tui", "--steps", "2", "--interval", "0s"})
	if err := root.Execute(); err != nil {
		t.Fatalf("run: %v", err)
	}

	var out bytes.Buffer
	root = rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"logs"})
	if err := root.Execute(); err != nil {
		t.Fatalf("logs: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Session ", "steps:", "2", "terminate", "#1", "#2"} {
		if !strings.Contains(got, want) {
			t.Errorf("logs output should contain %q\ngot:\n%s", want, got)
		}
	}
}
