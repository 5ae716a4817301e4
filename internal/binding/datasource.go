package binding

import (
	"maps"

	"github.com/joeycumines/widgetbind/internal/reactive"
	"github.com/joeycumines/widgetbind/internal/widget"
)

// SetDataSource is the watch callback that pushes a plain copy of data into
// the widget's data source: through Success when the options configure a
// dataSource, through Data otherwise. Widgets expose their source through a
// "dataSource" method. It is a variable so applications can replace it.
var SetDataSource Callback = func(data any, options Options, w widget.Widget) {
	v, ok := widget.Call(w, "dataSource")
	if !ok {
		return
	}
	ds, ok := v.(*widget.DataSource)
	if !ok || ds == nil {
		return
	}
	plain := reactive.ToPlain(data)
	if Truthy(options["dataSource"]) {
		ds.Success(plain)
	} else {
		ds.Data(plain)
	}
}

// DataOptionFilter is the OptionsFilter of data-bound widgets. A data source
// passed directly becomes {dataSource: it}; a data source passed as the data
// option moves to dataSource, leaving an empty data object behind; and
// whenever dataSource is set, data defaults to an empty object so the value
// is still recognised as options. The argument is never mutated.
func DataOptionFilter(v any) any {
	if ds, ok := v.(*widget.DataSource); ok {
		v = Options{"dataSource": ds}
	}
	opts, ok := asOptions(v)
	if !ok {
		return v
	}
	opts = maps.Clone(opts)

	if ds, ok := opts["data"].(*widget.DataSource); ok {
		opts["dataSource"] = ds
		opts["data"] = Options{}
	}
	if Truthy(opts["dataSource"]) && !Truthy(opts["data"]) {
		opts["data"] = Options{}
	}
	return opts
}
