// Package textarea is a bindable multi-line text input built on
// github.com/charmbracelet/bubbles/textarea.
//
// Programmatic writes (setValue, reset, insertString) never fire "change";
// only user input delivered through typeText, key or update does. Two-way
// bindings rely on this to avoid feedback loops.
//
// # Options
//
//	value, placeholder, width, height, charLimit, showLineNumbers, enabled
//
// # Events
//
//	change(value)   after user input altered the value
//	focus(), blur()
package textarea

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// Name is the widget name the textarea registers under.
const Name = "textarea"

var keyTypes = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"tab":       tea.KeyTab,
	"space":     tea.KeySpace,
}

// Textarea wraps a textarea.Model.
type Textarea struct {
	model     textarea.Model
	options   map[string]any
	width     int
	height    int
	enabled   bool
	methods   widget.Methods
	destroyed bool
}

// Register adds the textarea to lib.
func Register(lib *widget.Library) {
	lib.Register(Name, func(options map[string]any) (widget.Widget, error) {
		return New(options), nil
	})
}

// New constructs a textarea from its options.
func New(options map[string]any) *Textarea {
	t := &Textarea{
		model:   textarea.New(),
		options: options,
		width:   widget.ToInt(options["width"], 40),
		height:  widget.ToInt(options["height"], 6),
		enabled: widget.ToBool(options["enabled"], true),
	}
	t.model.ShowLineNumbers = widget.ToBool(options["showLineNumbers"], false)
	t.model.Placeholder = widget.ToString(options["placeholder"], "")
	t.model.CharLimit = widget.ToInt(options["charLimit"], 0)
	t.model.SetWidth(t.width)
	t.model.SetHeight(t.height)
	t.model.SetValue(widget.ToString(options["value"], ""))
	t.methods = t.buildMethods()
	return t
}

// Method implements widget.Widget.
func (t *Textarea) Method(name string) (widget.Method, bool) {
	return t.methods.Method(name)
}

// Destroy implements widget.Destroyer.
func (t *Textarea) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.model.Blur()
	t.options = nil
}

// Destroyed reports whether Destroy ran.
func (t *Textarea) Destroyed() bool {
	return t.destroyed
}

// Update feeds msg to the model as user input.
func (t *Textarea) Update(msg tea.Msg) tea.Cmd {
	if !t.enabled || !t.model.Focused() {
		return nil
	}
	before := t.model.Value()
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	if after := t.model.Value(); after != before {
		widget.Trigger(t.options, "change", after)
	}
	return cmd
}

func (t *Textarea) buildMethods() widget.Methods {
	return widget.Methods{
		"value": func(...any) any { return t.model.Value() },
		"setValue": func(args ...any) any {
			t.model.SetValue(widget.ToString(widget.Arg(args, 0), ""))
			return nil
		},
		"insertString": func(args ...any) any {
			t.model.InsertString(widget.ToString(widget.Arg(args, 0), ""))
			return nil
		},
		"reset": func(...any) any {
			t.model.Reset()
			return nil
		},
		"typeText": func(args ...any) any {
			s := widget.ToString(widget.Arg(args, 0), "")
			if s == "" {
				return nil
			}
			t.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
			return nil
		},
		"key": func(args ...any) any {
			kt, ok := keyTypes[widget.ToString(widget.Arg(args, 0), "")]
			if !ok {
				return false
			}
			t.Update(tea.KeyMsg{Type: kt})
			return true
		},
		"update": func(args ...any) any {
			if msg, ok := widget.Arg(args, 0).(tea.Msg); ok && msg != nil {
				t.Update(msg)
			}
			return nil
		},
		"focus": func(...any) any {
			if !t.enabled || t.model.Focused() {
				return t.model.Focused()
			}
			t.model.Focus()
			widget.Trigger(t.options, "focus")
			return true
		},
		"blur": func(...any) any {
			t.blur()
			return nil
		},
		"focused": func(...any) any { return t.model.Focused() },
		"enable": func(args ...any) any {
			t.enabled = widget.ToBool(widget.Arg(args, 0), true)
			if !t.enabled {
				t.blur()
			}
			return nil
		},
		"disable": func(...any) any {
			t.enabled = false
			t.blur()
			return nil
		},
		"enabled": func(...any) any { return t.enabled },
		"setPlaceholder": func(args ...any) any {
			t.model.Placeholder = widget.ToString(widget.Arg(args, 0), "")
			return nil
		},
		"width": func(...any) any { return t.width },
		"setWidth": func(args ...any) any {
			t.width = widget.ToInt(widget.Arg(args, 0), t.width)
			t.model.SetWidth(t.width)
			return nil
		},
		"height": func(...any) any { return t.height },
		"setHeight": func(args ...any) any {
			t.height = widget.ToInt(widget.Arg(args, 0), t.height)
			t.model.SetHeight(t.height)
			return nil
		},
		"lineCount": func(...any) any { return t.model.LineCount() },
		"length":    func(...any) any { return t.model.Length() },
		"view":      func(...any) any { return t.model.View() },
		"destroy": func(...any) any {
			t.Destroy()
			return nil
		},
	}
}

func (t *Textarea) blur() {
	if !t.model.Focused() {
		return
	}
	t.model.Blur()
	widget.Trigger(t.options, "blur")
}
