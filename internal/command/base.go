package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrUsage marks errors caused by bad command-line arguments.
var ErrUsage = errors.New("invalid usage")

// Command is one wbind subcommand. Execute receives the arguments left
// after SetupFlags' flags were parsed.
type Command interface {
	Name() string
	Description() string
	Usage() string
	SetupFlags(fs *flag.FlagSet)
	Execute(args []string, stdout, stderr io.Writer) error
}

// BaseCommand carries the metadata of a command and the reporting helpers
// shared by every wbind command. Embed it and implement Execute.
type BaseCommand struct {
	name        string
	description string
	usage       string
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(name, description, usage string) *BaseCommand {
	return &BaseCommand{name: name, description: description, usage: usage}
}

func (c *BaseCommand) Name() string        { return c.name }
func (c *BaseCommand) Description() string { return c.description }
func (c *BaseCommand) Usage() string       { return c.usage }

// SetupFlags registers no flags.
func (c *BaseCommand) SetupFlags(*flag.FlagSet) {}

// checkArgs prints the usage line and returns an ErrUsage error unless
// exactly n positional arguments were given.
func (c *BaseCommand) checkArgs(args []string, n int, stderr io.Writer) error {
	if len(args) == n {
		return nil
	}
	_, _ = fmt.Fprintf(stderr, "Usage: wbind %s\n", c.usage)
	return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrUsage, c.name, n, len(args))
}

// fail reports err on stderr and returns it.
func (c *BaseCommand) fail(stderr io.Writer, err error) error {
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return err
}
