package command

import (
	"bytes"
	"strings"
	"testing"
)

func newTestRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(NewHelpCommand(registry))
	registry.Register(NewVersionCommand("1.2.3"))
	registry.Register(NewDescribeCommand())
	registry.Register(NewRunCommand())
	return registry
}

func TestHelpCommandExecute(t *testing.T) {
	t.Parallel()
	registry := newTestRegistry()
	cmd, err := registry.Get("help")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("general help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := cmd.Execute(nil, &stdout, &stderr); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		output := stdout.String()
		for _, part := range []string{
			"wbind",
			"Usage: wbind <command>",
			"Available commands:",
			"describe",
			"List the widget bindings declared in a descriptor file",
			"run",
			"version",
		} {
			if !strings.Contains(output, part) {
				t.Errorf("Expected output to contain %q. Output: %s", part, output)
			}
		}
	})

	t.Run("command help lists flags", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := cmd.Execute([]string{"run"}, &stdout, &stderr); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		output := stdout.String()
		for _, part := range []string{
			"Command: run",
			"Usage: run [-d descriptors.yaml] <script.js>",
			"Flags:",
			"-log-level",
			"-log-file",
			"-timeout",
		} {
			if !strings.Contains(output, part) {
				t.Errorf("Expected output to contain %q. Output: %s", part, output)
			}
		}
	})

	t.Run("command help without flags", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := cmd.Execute([]string{"version"}, &stdout, &stderr); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(stdout.String(), "Flags:") {
			t.Errorf("Expected no flags section, got: %s", stdout.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := cmd.Execute([]string{"nope"}, &stdout, &stderr); err == nil {
			t.Fatal("Expected error for unknown command")
		}
		if !strings.Contains(stderr.String(), "Unknown command: nope") {
			t.Errorf("Unexpected stderr: %s", stderr.String())
		}
	})
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	cmd := NewVersionCommand("1.2.3")

	var stdout, stderr bytes.Buffer
	if err := cmd.Execute(nil, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "wbind version 1.2.3\n" {
		t.Errorf("Unexpected output: %q", got)
	}

	stdout.Reset()
	if err := cmd.Execute([]string{"extra"}, &stdout, &stderr); err == nil {
		t.Error("Expected error for unexpected arguments")
	}
}
