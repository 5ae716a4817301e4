package command

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/descriptor"
)

// DescribeCommand lists the widget descriptors declared in a YAML file.
type DescribeCommand struct {
	*BaseCommand
}

// NewDescribeCommand creates a new describe command.
func NewDescribeCommand() *DescribeCommand {
	return &DescribeCommand{
		BaseCommand: NewBaseCommand(
			"describe",
			"List the widget bindings declared in a descriptor file",
			"describe <descriptors.yaml>",
		),
	}
}

// Execute loads and prints the descriptors.
func (c *DescribeCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := c.checkArgs(args, 1, stderr); err != nil {
		return err
	}
	defs, err := descriptor.NewLoader().LoadFromPath(args[0])
	if err != nil {
		return c.fail(stderr, err)
	}

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tBINDING\tPARENT\tDEFAULT\tASYNC\tWATCH\tEVENTS")
	for _, def := range defs {
		d := def.Descriptor
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n",
			d.Name,
			d.RegisteredName(),
			dash(d.Parent),
			dash(d.DefaultOption),
			d.Async,
			dash(describeWatch(d)),
			dash(strings.Join(d.EventNames(), ",")),
		)
	}
	return w.Flush()
}

// describeWatch renders watched keys with their action, e.g.
// "enabled=enable|disable,value=setValue,title=func".
func describeWatch(d binding.Descriptor) string {
	parts := make([]string, 0, len(d.Watch))
	for _, key := range d.WatchedKeys() {
		a := d.Watch[key]
		switch a.Kind() {
		case binding.ActionCallback:
			parts = append(parts, key+"=func")
		default:
			parts = append(parts, key+"="+strings.Join(a.Methods(), "|"))
		}
	}
	return strings.Join(parts, ",")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

