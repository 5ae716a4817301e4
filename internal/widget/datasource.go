package widget

import (
	"reflect"
	"slices"
)

// DataSource is the shared data collaborator of list-like widgets. A widget
// exposes it through a "dataSource" method; the binding layer pushes plain
// copies of model data into it.
type DataSource struct {
	items     []any
	fetched   bool
	listeners []*dataListener
}

type dataListener struct {
	fn func(items []any)
}

// NewDataSource creates a data source holding items.
func NewDataSource(items ...any) *DataSource {
	return &DataSource{items: items}
}

// Data replaces the items with the elements of v (a slice or array), or with
// v itself for any other non-nil value.
func (d *DataSource) Data(v any) {
	d.items = toItems(v)
	d.changed()
}

// Success replaces the items as if they were the response of a read, and
// marks the source as fetched.
func (d *DataSource) Success(v any) {
	d.fetched = true
	d.Data(v)
}

// Items returns a snapshot of the current items.
func (d *DataSource) Items() []any {
	return slices.Clone(d.items)
}

// Fetched reports whether Success has been called.
func (d *DataSource) Fetched() bool {
	return d.fetched
}

// OnChange registers fn to run after the items change.
func (d *DataSource) OnChange(fn func(items []any)) (remove func()) {
	l := &dataListener{fn: fn}
	d.listeners = append(d.listeners, l)
	return func() {
		d.listeners = slices.DeleteFunc(d.listeners, func(v *dataListener) bool { return v == l })
	}
}

func (d *DataSource) changed() {
	for _, l := range slices.Clone(d.listeners) {
		l.fn(d.Items())
	}
}

func toItems(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return slices.Clone(t)
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); (k == reflect.Slice || k == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items
	}
	return []any{v}
}
