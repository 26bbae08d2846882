package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/server/response"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// page is the data behind one console render.
type page struct {
	console.View
	Flash     *console.Toast
	CSRFField template.HTML
	SignInURL string
	Statuses  []console.SelectOption
}

func parsePages() (*template.Template, error) {
	t, err := template.New("console.html").Funcs(template.FuncMap{
		"screenPath": func(s console.Screen) string { return screenPath(string(s)) },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.WrapParse("html", "console template", err)
	}
	return t, nil
}

func statusOptions(current string) []console.SelectOption {
	opts := []console.SelectOption{
		{Value: console.StatusAll, Label: "All"},
		{Value: string(equity.StatusActive), Label: "Active"},
		{Value: string(equity.StatusInactive), Label: "Inactive"},
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == current
	}
	return opts
}

// render writes the console page for bc, consuming its pending toast.
func (s *Server) render(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	v := bc.ctrl.View()
	data := page{
		View:      v,
		Flash:     bc.popFlash(),
		CSRFField: csrf.TemplateField(r),
		SignInURL: api.PathLogin,
		Statuses:  statusOptions(v.EmployeeStatus),
	}

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "console.html", data); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("Render failed")
		response.InternalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}
