package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/builtin"
	"github.com/joeycumines/widgetbind/internal/descriptor"
	"github.com/joeycumines/widgetbind/internal/uiloop"
)

// settleInterval is how often run polls for deferred work to drain.
const settleInterval = 5 * time.Millisecond

// RunCommand executes a script on the UI loop with the widget binding
// module and the bundled widget library available.
type RunCommand struct {
	*BaseCommand
	descriptors string
	timeout     time.Duration
	log         logFlags
}

// NewRunCommand creates a new run command.
func NewRunCommand() *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Run a script against the widget binding module",
			"run [-d descriptors.yaml] <script.js>",
		),
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.descriptors, "d", "", "YAML file of widget bindings to register before the script runs")
	fs.DurationVar(&c.timeout, "timeout", 10*time.Second, "Maximum time to wait for the script and its deferred work")
	c.log.setup(fs)
}

// Execute runs the script named by the single argument.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 1, stderr); err != nil {
		return err
	}
	script := args[0]
	code, err := os.ReadFile(script)
	if err != nil {
		return c.fail(stderr, err)
	}

	lc, err := resolveLogConfig(c.log)
	if err != nil {
		return c.fail(stderr, err)
	}
	defer lc.close()
	logger := lc.logger(stderr)

	var defs []descriptor.Definition
	if c.descriptors != "" {
		defs, err = descriptor.NewLoader(descriptor.WithLogger(logger)).LoadFromPath(c.descriptors)
		if err != nil {
			return c.fail(stderr, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	loop, err := uiloop.New(ctx, uiloop.WithLogger(logger), uiloop.WithTimeout(c.timeout))
	if err != nil {
		return fmt.Errorf("failed to start ui loop: %w", err)
	}
	defer func() { _ = loop.Close() }()

	factory := binding.NewFactory(builtin.Widgets(),
		binding.WithLogger(logger),
		binding.WithScheduler(loop),
	)
	registered := descriptor.Register(factory, defs)
	builtin.Register(loop.Registry(), factory, logger)
	logger.Debug("registered descriptors",
		slog.String("path", c.descriptors),
		slog.Int("count", len(registered)))

	if err := loop.Do(func(vm *goja.Runtime) error {
		return vm.Set("print", func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			_, _ = fmt.Fprintln(stdout, strings.Join(parts, " "))
			return goja.Undefined()
		})
	}); err != nil {
		return err
	}

	if err := loop.RunScript(script, string(code)); err != nil {
		return c.fail(stderr, err)
	}
	return settle(ctx, loop)
}

// settle waits for deferred widget construction to drain, including work
// queued by deferred work.
func settle(ctx context.Context, loop *uiloop.Loop) error {
	ticker := time.NewTicker(settleInterval)
	defer ticker.Stop()
	for {
		if loop.Pending() == 0 {
			if err := loop.Do(func(*goja.Runtime) error { return nil }); err != nil {
				return err
			}
			if loop.Pending() == 0 {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("deferred work did not finish: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
