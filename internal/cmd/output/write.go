package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
)

// Render writes rows for table formats and records for json and yaml, the
// shape of every listing command.
func Render(w io.Writer, format Format, rows table.Data, records any) error {
	if format.IsTable() {
		return Write(w, format, rows)
	}
	return Write(w, format, records)
}

// Write encodes data in format. For table formats data is a table.Data, or
// a struct shown as Property/Value rows; anything else falls back to JSON.
func Write(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, data)
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	switch v := data.(type) {
	case table.Data:
		return writeTable(w, v)
	case *table.Data:
		return writeTable(w, *v)
	}
	if rows, ok := propertyRows(data); ok {
		return writeTable(w, rows)
	}
	return writeJSON(w, data)
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

var twAlign = map[table.Align]tw.Align{
	table.AlignLeft:   tw.AlignLeft,
	table.AlignCenter: tw.AlignCenter,
	table.AlignRight:  tw.AlignRight,
}

func writeTable(w io.Writer, data table.Data) error {
	if len(data.Rows) == 0 && data.Empty != "" {
		_, err := fmt.Fprintln(w, data.Empty)
		return err
	}

	var cfg tablewriter.Config
	if len(data.ColumnAlignment) > 0 {
		align := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			var ok bool
			if align[i], ok = twAlign[a]; !ok {
				align[i] = tw.Skip
			}
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: align}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	t := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(data.Headers) > 0 {
		t.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := t.Append(cells(row)...); err != nil {
			return err
		}
	}
	return t.Render()
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

// propertyRows lays out a struct, or a pointer to one, as Property/Value
// rows titled after its json tags. Nil pointers read as "-".
func propertyRows(data any) (table.Data, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return table.Data{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return table.Data{}, false
	}

	title := cases.Title(language.English)
	out := table.Data{Headers: []string{"Property", "Value"}}
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = title.String(strings.ReplaceAll(tag, "_", " "))
		}
		value := v.Field(i)
		text := "-"
		if value.Kind() != reflect.Pointer || !value.IsNil() {
			text = fmt.Sprint(reflect.Indirect(value).Interface())
		}
		out.Rows = append(out.Rows, []string{name, text})
	}
	return out, true
}
