package builtin

import (
	"log/slog"

	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/widgetbind/internal/binding"
	"github.com/joeycumines/widgetbind/internal/builtin/widgetbind"
	"github.com/joeycumines/widgetbind/internal/widget"
	"github.com/joeycumines/widgetbind/internal/widget/textarea"
	"github.com/joeycumines/widgetbind/internal/widget/viewport"
)

// Prefix is the module name prefix of every native module.
const Prefix = "wb:"

// Widgets returns a library holding the bundled widgets.
func Widgets() *widget.Library {
	lib := widget.NewLibrary()
	viewport.Register(lib)
	textarea.Register(lib)
	return lib
}

// Register registers all native Go modules with the provided registry and
// returns the manager backing "wb:widgetbind".
func Register(registry *require.Registry, factory *binding.Factory, logger *slog.Logger) *widgetbind.Manager {
	manager := widgetbind.NewManager(factory, logger)
	registry.RegisterNativeModule(Prefix+"widgetbind", widgetbind.Require(manager))
	return manager
}
