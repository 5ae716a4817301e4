// Package viewport is a bindable scrollable viewport built on
// github.com/charmbracelet/bubbles/viewport.
//
// # Options
//
//	width, height        dimensions (default 80x24)
//	content              initial content
//	data, dataSource     items rendered one per line; dataSource must be a
//	                     *widget.DataSource and wins over data
//	yOffset              initial vertical offset
//	border               draw a rounded lipgloss border
//	scrollbar            draw a scrollbar column to the right
//	scrollbarThumb       scrollbar thumb character
//	scrollbarTrack       scrollbar track character
//	mouseWheelEnabled    bool
//
// # Events
//
//	scroll(yOffset)      after any change of the vertical offset
//
// # Methods
//
// content, setContent, yOffset, setYOffset, scrollDown, scrollUp, gotoTop,
// gotoBottom, atTop, atBottom, scrollPercent, width, setWidth, height,
// setHeight, totalLineCount, visibleLineCount, dataSource, view, destroy.
package viewport

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// Name is the widget name the viewport registers under.
const Name = "viewport"

// Viewport wraps a viewport.Model.
type Viewport struct {
	model     viewport.Model
	content   string
	options   map[string]any
	source    *widget.DataSource
	gutter    *gutter
	unlisten  func()
	methods   widget.Methods
	destroyed bool
}

// Register adds the viewport to lib.
func Register(lib *widget.Library) {
	lib.Register(Name, func(options map[string]any) (widget.Widget, error) {
		return New(options), nil
	})
}

// New constructs a viewport from its options.
func New(options map[string]any) *Viewport {
	v := &Viewport{
		model:   viewport.New(widget.ToInt(options["width"], 80), widget.ToInt(options["height"], 24)),
		options: options,
	}
	if widget.ToBool(options["border"], false) {
		v.model.Style = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	}
	if widget.ToBool(options["scrollbar"], false) {
		g := newGutter(options)
		v.gutter = &g
	}
	v.model.MouseWheelEnabled = widget.ToBool(options["mouseWheelEnabled"], v.model.MouseWheelEnabled)

	switch ds := options["dataSource"].(type) {
	case *widget.DataSource:
		v.source = ds
	default:
		v.source = widget.NewDataSource()
		if data := options["data"]; isList(data) {
			v.source.Data(data)
		}
	}
	v.unlisten = v.source.OnChange(v.render)

	if items := v.source.Items(); len(items) > 0 {
		v.render(items)
	} else {
		v.setContent(widget.ToString(options["content"], ""))
	}
	if off, ok := options["yOffset"]; ok {
		v.model.SetYOffset(widget.ToInt(off, 0))
	}

	v.methods = v.buildMethods()
	return v
}

// Method implements widget.Widget.
func (v *Viewport) Method(name string) (widget.Method, bool) {
	return v.methods.Method(name)
}

// Destroy implements widget.Destroyer.
func (v *Viewport) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	if v.unlisten != nil {
		v.unlisten()
	}
	v.options = nil
}

// Destroyed reports whether Destroy ran.
func (v *Viewport) Destroyed() bool {
	return v.destroyed
}

func (v *Viewport) buildMethods() widget.Methods {
	return widget.Methods{
		"content": func(...any) any { return v.content },
		"setContent": func(args ...any) any {
			v.setContent(widget.ToString(widget.Arg(args, 0), ""))
			return nil
		},
		"yOffset": func(...any) any { return v.model.YOffset },
		"setYOffset": func(args ...any) any {
			v.scroll(func() { v.model.SetYOffset(widget.ToInt(widget.Arg(args, 0), v.model.YOffset)) })
			return nil
		},
		"scrollDown": func(args ...any) any {
			v.scroll(func() { v.model.ScrollDown(widget.ToInt(widget.Arg(args, 0), 1)) })
			return nil
		},
		"scrollUp": func(args ...any) any {
			v.scroll(func() { v.model.ScrollUp(widget.ToInt(widget.Arg(args, 0), 1)) })
			return nil
		},
		"gotoTop": func(...any) any {
			v.scroll(func() { v.model.GotoTop() })
			return nil
		},
		"gotoBottom": func(...any) any {
			v.scroll(func() { v.model.GotoBottom() })
			return nil
		},
		"atTop":         func(...any) any { return v.model.AtTop() },
		"atBottom":      func(...any) any { return v.model.AtBottom() },
		"scrollPercent": func(...any) any { return v.model.ScrollPercent() },
		"width":         func(...any) any { return v.model.Width },
		"setWidth": func(args ...any) any {
			v.model.Width = widget.ToInt(widget.Arg(args, 0), v.model.Width)
			return nil
		},
		"height": func(...any) any { return v.model.Height },
		"setHeight": func(args ...any) any {
			v.scroll(func() {
				v.model.Height = widget.ToInt(widget.Arg(args, 0), v.model.Height)
				v.clampOffset()
			})
			return nil
		},
		"totalLineCount":   func(...any) any { return v.model.TotalLineCount() },
		"visibleLineCount": func(...any) any { return v.model.VisibleLineCount() },
		"dataSource":       func(...any) any { return v.source },
		"view":             func(...any) any { return v.view() },
		"destroy": func(...any) any {
			v.Destroy()
			return nil
		},
	}
}

func (v *Viewport) view() string {
	out := v.model.View()
	if v.gutter == nil {
		return out
	}
	bar := v.gutter.render(v.model.TotalLineCount(), v.model.Height, v.model.YOffset)
	return lipgloss.JoinHorizontal(lipgloss.Top, out, bar)
}

func (v *Viewport) setContent(s string) {
	v.scroll(func() {
		v.content = s
		v.model.SetContent(s)
		v.clampOffset()
	})
}

func (v *Viewport) render(items []any) {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprint(item)
	}
	v.setContent(strings.Join(lines, "\n"))
}

// scroll runs fn and fires the scroll event if the offset moved.
func (v *Viewport) scroll(fn func()) {
	before := v.model.YOffset
	fn()
	if v.model.YOffset != before {
		widget.Trigger(v.options, "scroll", v.model.YOffset)
	}
}

func (v *Viewport) clampOffset() {
	maxOffset := max(v.model.TotalLineCount()-v.model.Height, 0)
	if v.model.YOffset > maxOffset {
		v.model.SetYOffset(maxOffset)
	}
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
