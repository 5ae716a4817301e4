package command

import (
	"errors"
	"io"
	"slices"
	"testing"
)

// TestCommand implements Command interface for testing
type TestCommand struct {
	*BaseCommand
}

func NewTestCommand(name, description, usage string) *TestCommand {
	return &TestCommand{
		BaseCommand: NewBaseCommand(name, description, usage),
	}
}

func (c *TestCommand) Execute(args []string, stdout, stderr io.Writer) error {
	return nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	registry.Register(NewTestCommand("zeta", "Last", "zeta"))
	registry.Register(NewTestCommand("alpha", "First", "alpha [options]"))

	cmd, err := registry.Get("alpha")
	if err != nil {
		t.Fatalf("Failed to get registered command: %v", err)
	}
	if cmd.Usage() != "alpha [options]" {
		t.Errorf("Expected usage 'alpha [options]', got '%s'", cmd.Usage())
	}

	_, err = registry.Get("nonexistent")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}

	if got := registry.List(); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Errorf("Expected sorted command list, got %v", got)
	}
}

func TestRegistry_ReplacesByName(t *testing.T) {
	t.Parallel()
	registry := NewRegistry()
	registry.Register(NewTestCommand("dup", "old", "dup"))
	registry.Register(NewTestCommand("dup", "new", "dup"))

	cmd, err := registry.Get("dup")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Description() != "new" {
		t.Errorf("Expected the later registration to win, got %q", cmd.Description())
	}
	if len(registry.List()) != 1 {
		t.Errorf("Expected one command, got %v", registry.List())
	}
}
