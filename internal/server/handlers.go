package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/server/response"
	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// consoleHandler handles a form post for a signed-in browser.
type consoleHandler func(w http.ResponseWriter, r *http.Request, bc *browserConsole)

func screenPath(screen string) string {
	return "/app/" + url.PathEscape(screen)
}

// redirect finishes a form post with a 303 so a reload does not resubmit.
func redirect(w http.ResponseWriter, r *http.Request, screen string) {
	if screen == "" {
		screen = string(console.ScreenDashboard)
	}
	http.Redirect(w, r, screenPath(screen), http.StatusSeeOther)
}

// requireSession sends signed-out browsers back to the sign-in gate.
func (s *Server) requireSession(next consoleHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bc := s.consoleFor(w, r)
		if !bc.ctrl.State().Auth.Authenticated {
			bc.setFlash(console.Result{Err: errors.NewSessionExpiredError(r.URL.Path)})
			redirect(w, r, string(console.ScreenDashboard))
			return
		}
		if err := r.ParseForm(); err != nil {
			response.BadRequest(w, "Malformed form", err.Error())
			return
		}
		next(w, r, bc)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":   "ok",
		"consoles": s.consoles.GetStats(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleScreen renders /app/{screen}. Query parameters carry the filters
// of the screen's GET forms.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	bc := s.consoleFor(w, r)
	if !bc.ctrl.State().Auth.Authenticated {
		s.render(w, r, bc)
		return
	}

	requested := mux.Vars(r)["screen"]
	bc.ctrl.Update(r.Context(), console.Navigate{Screen: requested})
	screen := bc.ctrl.State().Screen
	// Non-canonical and disallowed names land on the canonical path.
	if string(screen) != requested {
		http.Redirect(w, r, screenPath(string(screen)), http.StatusSeeOther)
		return
	}

	q := r.URL.Query()
	switch screen {
	case console.ScreenEmployees:
		if q.Has("search") {
			bc.ctrl.Update(r.Context(), console.SetEmployeeSearch{Query: q.Get("search")})
		}
		if q.Has("status") {
			bc.ctrl.Update(r.Context(), console.SetEmployeeStatus{Status: q.Get("status")})
		}
	case console.ScreenGrants:
		if q.Has("search") {
			bc.ctrl.Update(r.Context(), console.SetGrantSearch{Query: q.Get("search")})
		}
	case console.ScreenExercises:
		if raw := q.Get("grant"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				bc.setFlash(console.Result{Err: errors.NewValidationError("grant", raw, "must be a grant id")})
			} else if id != bc.ctrl.State().SelectedGrantID {
				bc.setFlash(s.update(r, bc, console.SelectExerciseGrant{GrantID: id}))
			}
		}
	}
	s.render(w, r, bc)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	bc.setFlash(s.update(r, bc, console.Refresh{}))
	redirect(w, r, r.PostForm.Get("screen"))
}

func (s *Server) handleAsOf(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	bc.setFlash(s.update(r, bc, console.SetAsOf{Date: r.PostForm.Get("as_of")}))
	redirect(w, r, r.PostForm.Get("screen"))
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	form := console.EmployeeFormFromValues(r.PostForm)
	bc.setFlash(s.update(r, bc, console.SubmitEmployee{Form: form}))
	redirect(w, r, string(console.ScreenEmployees))
}

func (s *Server) handleCreateGrant(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	form := console.GrantFormFromValues(r.PostForm)
	bc.setFlash(s.update(r, bc, console.SubmitGrant{Form: form}))
	redirect(w, r, string(console.ScreenGrants))
}

func (s *Server) handleRecordExercise(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	form := console.ExerciseFormFromValues(r.PostForm)
	bc.setFlash(s.update(r, bc, console.SubmitExercise{Form: form}))
	redirect(w, r, string(console.ScreenExercises))
}

// handleLogout ends the backend session and replaces the browser console
// with a signed-out one.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, bc *browserConsole) {
	res := s.update(r, bc, console.Logout{})
	if res.Err != nil {
		bc.setFlash(res)
		redirect(w, r, r.PostForm.Get("screen"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
	})
	fresh := s.newConsole(bc.id, "")
	fresh.setFlash(res)
	s.consoles.SetWithTTL(bc.id, fresh, constants.SignedOutConsoleTTL)

	logging.FromContext(r.Context()).Info().Str("console", bc.id).Msg("Signed out")
	redirect(w, r, string(console.ScreenDashboard))
}
