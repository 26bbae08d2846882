// Package apitest provides an in-memory ESOP backend for tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/sankshitpandoh/CapLedger/internal/utils/ptr"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
)

// SessionCookie is the cookie name the fake backend checks.
const SessionCookie = "session"

// Backend is a fake backend with just enough behavior for console tests.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	sessions  map[string]equity.AuthUser
	employees []equity.Employee
	grants    []equity.Grant
	exercises map[int64][]equity.Exercise
	poolSize  int64
	requests  []string
	failPaths map[string]int
	nextID    int64
}

// NewBackend starts a fake backend that is closed with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		sessions:  make(map[string]equity.AuthUser),
		exercises: make(map[int64][]equity.Exercise),
		failPaths: make(map[string]int),
		poolSize:  100000,
		nextID:    100,
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// AddSession registers a session cookie value for user.
func (b *Backend) AddSession(token string, user equity.AuthUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[token] = user
}

// ExpireSession forgets a session so further calls answer 401.
func (b *Backend) ExpireSession(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, token)
}

// AddEmployee seeds an employee.
func (b *Backend) AddEmployee(e equity.Employee) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.employees = append(b.employees, e)
}

// AddGrant seeds a grant.
func (b *Backend) AddGrant(g equity.Grant) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grants = append(b.grants, g)
}

// AddExercise seeds an exercise.
func (b *Backend) AddExercise(e equity.Exercise) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exercises[e.GrantID] = append(b.exercises[e.GrantID], e)
}

// FailPath makes every request to path answer status with a detail body.
func (b *Backend) FailPath(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failPaths[path] = status
}

// Requests returns "METHOD /path?query" for every request served.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Employees returns a copy of the stored employees.
func (b *Backend) Employees() []equity.Employee {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]equity.Employee(nil), b.employees...)
}

// Grants returns a copy of the stored grants.
func (b *Backend) Grants() []equity.Grant {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]equity.Grant(nil), b.grants...)
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/api/auth/me", b.me).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/logout", b.logout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/auth/callback?code=test", http.StatusFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/callback", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: r.URL.Query().Get("code"), Path: "/"})
		http.Redirect(w, r, "/", http.StatusFound)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(b.authenticated)
	api.HandleFunc("/employees", b.listEmployees).Methods(http.MethodGet)
	api.HandleFunc("/employees", b.createEmployee).Methods(http.MethodPost)
	api.HandleFunc("/employees/{id:[0-9]+}", b.deactivateEmployee).Methods(http.MethodDelete)
	api.HandleFunc("/employees/{id:[0-9]+}", b.updateEmployee).Methods(http.MethodPatch)
	api.HandleFunc("/grants", b.listGrants).Methods(http.MethodGet)
	api.HandleFunc("/grants", b.createGrant).Methods(http.MethodPost)
	api.HandleFunc("/grants/{id:[0-9]+}", b.updateGrant).Methods(http.MethodPatch)
	api.HandleFunc("/grants/{id:[0-9]+}/summary", b.grantSummary).Methods(http.MethodGet)
	api.HandleFunc("/grants/{id:[0-9]+}/exercises", b.listExercises).Methods(http.MethodGet)
	api.HandleFunc("/grants/{id:[0-9]+}/exercises", b.recordExercise).Methods(http.MethodPost)
	api.HandleFunc("/dashboard/summary", b.dashboard).Methods(http.MethodGet)
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		line := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		b.requests = append(b.requests, line)
		status, fail := b.failPaths[r.URL.Path]
		b.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"detail": "forced failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) user(r *http.Request) (equity.AuthUser, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return equity.AuthUser{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.sessions[c.Value]
	return u, ok
}

func (b *Backend) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/me" || r.URL.Path == "/api/auth/logout" {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := b.user(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	u, ok := b.user(r)
	if !ok {
		writeJSON(w, http.StatusOK, equity.Session{Authenticated: false})
		return
	}
	writeJSON(w, http.StatusOK, equity.Session{Authenticated: true, User: &u})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		b.ExpireSession(c.Value)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func page[T any](r *http.Request, items []T) []T {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 50
	}
	if offset >= len(items) {
		return []T{}
	}
	return items[offset:min(offset+limit, len(items))]
}

func (b *Backend) listEmployees(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := r.URL.Query().Get("status")
	var out []equity.Employee
	for _, e := range b.employees {
		if status == "" || string(e.Status) == status {
			out = append(out, e)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, page(r, out))
}

func (b *Backend) createEmployee(w http.ResponseWriter, r *http.Request) {
	var p equity.EmployeeCreate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": err.Error()}}})
		return
	}
	b.mu.Lock()
	for _, e := range b.employees {
		if e.EmployeeCode == p.EmployeeCode {
			b.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "Employee code already exists"})
			return
		}
	}
	b.nextID++
	e := equity.Employee{
		ID: b.nextID, EmployeeCode: p.EmployeeCode, FullName: p.FullName,
		Email: p.Email, Status: p.Status, JoiningDate: p.JoiningDate,
	}
	b.employees = append(b.employees, e)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, e)
}

func (b *Backend) deactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.employees {
		if b.employees[i].ID == id {
			b.employees[i].Status = equity.StatusInactive
			writeJSON(w, http.StatusOK, b.employees[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee not found"})
}

func (b *Backend) updateEmployee(w http.ResponseWriter, r *http.Request) {
	var p equity.EmployeeUpdate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": err.Error()}}})
		return
	}
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := -1
	for i, e := range b.employees {
		if e.ID == id {
			idx = i
		} else if p.EmployeeCode != nil && e.EmployeeCode == *p.EmployeeCode {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "Employee code already exists"})
			return
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee not found"})
		return
	}
	e := &b.employees[idx]
	e.EmployeeCode = ptr.Or(p.EmployeeCode, e.EmployeeCode)
	e.FullName = ptr.Or(p.FullName, e.FullName)
	e.Email = ptr.Or(p.Email, e.Email)
	e.JoiningDate = ptr.Or(p.JoiningDate, e.JoiningDate)
	e.Status = ptr.Or(p.Status, e.Status)
	writeJSON(w, http.StatusOK, *e)
}

func (b *Backend) visibleGrants(r *http.Request) []equity.Grant {
	u, _ := b.user(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	filter, _ := strconv.ParseInt(r.URL.Query().Get("employee_id"), 10, 64)
	var out []equity.Grant
	for _, g := range b.grants {
		if !u.Role.IsAdmin() && (u.EmployeeID == nil || *u.EmployeeID != g.EmployeeID) {
			continue
		}
		if filter > 0 && g.EmployeeID != filter {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (b *Backend) listGrants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, page(r, b.visibleGrants(r)))
}

func (b *Backend) createGrant(w http.ResponseWriter, r *http.Request) {
	var p equity.GrantCreate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.StrikePriceCents == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "strike_price_cents is required"}}})
		return
	}
	b.mu.Lock()
	var allocated int64
	for _, g := range b.grants {
		allocated += g.TotalOptions
	}
	if allocated+p.TotalOptions > b.poolSize {
		b.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Grant exceeds remaining pool"})
		return
	}
	b.nextID++
	g := equity.Grant{
		ID: b.nextID, EmployeeID: p.EmployeeID, GrantName: p.GrantName, GrantDate: p.GrantDate,
		VestingStartDate: p.VestingStartDate, TotalOptions: p.TotalOptions, StrikePriceCents: *p.StrikePriceCents,
		CliffMonths: p.CliffMonths, VestingMonths: p.VestingMonths, VestingFrequencyMonths: p.VestingFrequencyMonths,
		Notes: p.Notes,
	}
	b.grants = append(b.grants, g)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, g)
}

func (b *Backend) updateGrant(w http.ResponseWriter, r *http.Request) {
	var p equity.GrantUpdate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": err.Error()}}})
		return
	}
	id := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := -1
	var allocated int64
	for i, g := range b.grants {
		if g.ID == id {
			idx = i
		} else {
			allocated += g.TotalOptions
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Grant not found"})
		return
	}
	g, err := p.Apply(b.grants[idx])
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": err.Error()}}})
		return
	}
	var exercised int64
	for _, e := range b.exercises[id] {
		exercised += e.OptionsExercised
	}
	if g.TotalOptions < exercised {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "total_options cannot be lower than exercised options"})
		return
	}
	if allocated+g.TotalOptions > b.poolSize {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Updated grant exceeds available ESOP pool"})
		return
	}
	b.grants[idx] = g
	writeJSON(w, http.StatusOK, g)
}

// summarize uses a flat half-vested model; real vesting math lives on the backend.
func (b *Backend) summarize(g equity.Grant, asOf string) equity.GrantSummary {
	name := "Unknown"
	for _, e := range b.employees {
		if e.ID == g.EmployeeID {
			name = e.FullName
		}
	}
	var exercised int64
	for _, e := range b.exercises[g.ID] {
		exercised += e.OptionsExercised
	}
	vested := g.TotalOptions / 2
	return equity.GrantSummary{
		GrantID: g.ID, EmployeeID: g.EmployeeID, EmployeeName: name, GrantName: g.GrantName, AsOf: asOf,
		TotalOptions: g.TotalOptions, VestedOptions: vested, UnvestedOptions: g.TotalOptions - vested,
		ExercisedOptions: exercised, AvailableToExercise: max(vested-exercised, 0),
		OutstandingOptions: g.TotalOptions - exercised,
	}
}

func (b *Backend) grantSummary(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	for _, g := range b.visibleGrants(r) {
		if g.ID == id {
			b.mu.Lock()
			s := b.summarize(g, r.URL.Query().Get("as_of"))
			b.mu.Unlock()
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Grant not found"})
}

func (b *Backend) listExercises(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	b.mu.Lock()
	out := append([]equity.Exercise{}, b.exercises[id]...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) recordExercise(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var p equity.ExerciseCreate
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var grant *equity.Grant
	for i := range b.grants {
		if b.grants[i].ID == id {
			grant = &b.grants[i]
		}
	}
	if grant == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Grant not found"})
		return
	}
	if p.OptionsExercised > b.summarize(*grant, p.ExerciseDate).AvailableToExercise {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Cannot exercise more than available vested options"})
		return
	}
	b.nextID++
	e := equity.Exercise{ID: b.nextID, GrantID: id, ExerciseDate: p.ExerciseDate, OptionsExercised: p.OptionsExercised, PricePerOptionCents: ptr.Or(p.PricePerOptionCents, grant.StrikePriceCents)}
	b.exercises[id] = append(b.exercises[id], e)
	writeJSON(w, http.StatusCreated, e)
}

func (b *Backend) dashboard(w http.ResponseWriter, r *http.Request) {
	asOf := r.URL.Query().Get("as_of")
	grants := b.visibleGrants(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	d := equity.DashboardSummary{AsOf: asOf, PoolSize: b.poolSize, GrantSummaries: []equity.GrantSummary{}}
	for _, e := range b.employees {
		d.TotalEmployees++
		if e.Status == equity.StatusActive {
			d.ActiveEmployees++
		}
	}
	for _, g := range grants {
		s := b.summarize(g, asOf)
		d.TotalGrants++
		d.PoolAllocated += g.TotalOptions
		d.VestedOptions += s.VestedOptions
		d.UnvestedOptions += s.UnvestedOptions
		d.ExercisedOptions += s.ExercisedOptions
		d.GrantSummaries = append(d.GrantSummaries, s)
	}
	d.PoolRemaining = d.PoolSize - d.PoolAllocated
	writeJSON(w, http.StatusOK, d)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
