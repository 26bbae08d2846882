package hints

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/output"
)

// Write prints hs in format: one block per hint for tables, or a single
// {"hints": [...]} document for json and yaml. Nothing is written for no hints.
func Write(w io.Writer, format output.Format, hs []Hint) error {
	if len(hs) == 0 {
		return nil
	}
	doc := map[string][]Hint{"hints": hs}
	switch format {
	case output.FormatJSON:
		return json.NewEncoder(w).Encode(doc)
	case output.FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	for _, h := range hs {
		if _, err := fmt.Fprintln(w, h.String()); err != nil {
			return err
		}
	}
	return nil
}
