// Package table converts console views into plain rows for CLI output.
package table

import (
	"strings"

	"github.com/sankshitpandoh/CapLedger/internal/console"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// numericHeaders are right-aligned.
var numericHeaders = map[string]bool{
	"ID": true, "Total": true, "Vested": true, "Exercised": true, "Available": true,
	"Options": true, "Strike": true, "Price": true, "Total Cost": true, "Value": true,
}

// FromConsole converts a console table. Wide output moves cell hints into
// their own column ("Employee" gets a "Employee Code" neighbour); otherwise
// hints are dropped.
func FromConsole(t console.Table, wide bool) Data {
	hinted := hintedColumns(t)

	var headers []string
	for i, h := range t.Headers {
		headers = append(headers, h)
		if wide && hinted[i] {
			headers = append(headers, h+" Code")
		}
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(headers))
		for i, c := range r {
			row = append(row, c.Text)
			if wide && hinted[i] {
				row = append(row, c.Hint)
			}
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: alignments(headers),
		Empty:           t.Empty,
	}
}

// Metrics renders KPI tiles as a two-column table.
func Metrics(metrics []console.Metric, empty string) Data {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.Label, m.Value})
	}
	headers := []string{"Metric", "Value"}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: alignments(headers), Empty: empty}
}

// KeyValues renders label/value pairs in the given order.
func KeyValues(pairs ...[2]string) Data {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func hintedColumns(t console.Table) map[int]bool {
	out := map[int]bool{}
	for _, r := range t.Rows {
		for i, c := range r {
			if strings.TrimSpace(c.Hint) != "" {
				out[i] = true
			}
		}
	}
	return out
}

func alignments(headers []string) []Align {
	out := make([]Align, len(headers))
	for i, h := range headers {
		if numericHeaders[h] {
			out[i] = AlignRight
		}
	}
	return out
}
