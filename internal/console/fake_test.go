package console

import (
	"context"
	"sync"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// fakeAPI serves canned data. Func fields override individual calls.
type fakeAPI struct {
	mu sync.Mutex

	session   equity.Session
	employees []equity.Employee
	grants    []equity.Grant
	dashboard *equity.DashboardSummary
	exercises map[int64][]equity.Exercise

	calls   map[string]int
	created []any
	hooks   []func()

	ListEmployeesFunc  func(ctx context.Context) ([]equity.Employee, error)
	CreateEmployeeFunc func(ctx context.Context, p equity.EmployeeCreate) (equity.Employee, error)
	CreateGrantFunc    func(ctx context.Context, p equity.GrantCreate) (equity.Grant, error)
	ExercisesFunc      func(ctx context.Context, grantID int64) ([]equity.Exercise, error)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		exercises: make(map[int64][]equity.Exercise),
		calls:     make(map[string]int),
	}
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// expire simulates the transport seeing a 401.
func (f *fakeAPI) expire(endpoint string) error {
	f.mu.Lock()
	hooks := append([]func(){}, f.hooks...)
	f.mu.Unlock()
	for _, h := range hooks {
		h()
	}
	return errors.NewSessionExpiredError(endpoint)
}

func (f *fakeAPI) OnSessionExpired(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, fn)
}

func (f *fakeAPI) Me(context.Context) (equity.Session, error) {
	f.count("Me")
	return f.session, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.count("Logout")
	return nil
}

func (f *fakeAPI) ListEmployees(ctx context.Context, _ api.EmployeeFilter) ([]equity.Employee, error) {
	f.count("ListEmployees")
	if f.ListEmployeesFunc != nil {
		return f.ListEmployeesFunc(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]equity.Employee(nil), f.employees...), nil
}

func (f *fakeAPI) ListGrants(context.Context, api.GrantFilter) ([]equity.Grant, error) {
	f.count("ListGrants")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]equity.Grant(nil), f.grants...), nil
}

func (f *fakeAPI) DashboardSummary(_ context.Context, asOf string) (*equity.DashboardSummary, error) {
	f.count("DashboardSummary")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dashboard == nil {
		return nil, nil
	}
	d := *f.dashboard
	d.AsOf = asOf
	return &d, nil
}

func (f *fakeAPI) Exercises(ctx context.Context, grantID int64) ([]equity.Exercise, error) {
	f.count("Exercises")
	if f.ExercisesFunc != nil {
		return f.ExercisesFunc(ctx, grantID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]equity.Exercise(nil), f.exercises[grantID]...), nil
}

func (f *fakeAPI) CreateEmployee(ctx context.Context, p equity.EmployeeCreate) (equity.Employee, error) {
	f.count("CreateEmployee")
	if f.CreateEmployeeFunc != nil {
		return f.CreateEmployeeFunc(ctx, p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e := equity.Employee{ID: int64(len(f.employees) + 1), EmployeeCode: p.EmployeeCode, FullName: p.FullName, Email: p.Email, Status: p.Status}
	f.employees = append(f.employees, e)
	f.created = append(f.created, p)
	return e, nil
}

func (f *fakeAPI) CreateGrant(ctx context.Context, p equity.GrantCreate) (equity.Grant, error) {
	f.count("CreateGrant")
	if f.CreateGrantFunc != nil {
		return f.CreateGrantFunc(ctx, p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	g := equity.Grant{ID: int64(len(f.grants) + 1), EmployeeID: p.EmployeeID, GrantName: p.GrantName, TotalOptions: p.TotalOptions}
	f.grants = append(f.grants, g)
	f.created = append(f.created, p)
	return g, nil
}

func (f *fakeAPI) RecordExercise(_ context.Context, grantID int64, p equity.ExerciseCreate) (equity.Exercise, error) {
	f.count("RecordExercise")
	f.mu.Lock()
	defer f.mu.Unlock()
	e := equity.Exercise{ID: int64(len(f.exercises[grantID]) + 1), GrantID: grantID, ExerciseDate: p.ExerciseDate, OptionsExercised: p.OptionsExercised}
	if p.PricePerOptionCents != nil {
		e.PricePerOptionCents = *p.PricePerOptionCents
	}
	f.exercises[grantID] = append(f.exercises[grantID], e)
	f.created = append(f.created, p)
	return e, nil
}

func adminSession() equity.Session {
	return equity.Session{Authenticated: true, User: &equity.AuthUser{ID: 1, Email: "ops@acme.io", FullName: "Ops Admin", Role: equity.RoleAdmin}}
}

func employeeSession() equity.Session {
	id := int64(1)
	return equity.Session{Authenticated: true, User: &equity.AuthUser{ID: 2, Email: "ada@acme.io", FullName: "Ada", Role: equity.RoleEmployee, EmployeeID: &id}}
}

// seededAPI returns a backend with two employees, two grants and a summary
// for the first grant only.
func seededAPI(session equity.Session) *fakeAPI {
	f := newFakeAPI()
	f.session = session
	f.employees = []equity.Employee{
		{ID: 1, EmployeeCode: "E-001", FullName: "Ada Lovelace", Email: "ada@acme.io", Status: equity.StatusActive, JoiningDate: "2023-02-01"},
		{ID: 2, EmployeeCode: "E-002", FullName: "Bob Stone", Email: "bob@acme.io", Status: equity.StatusInactive, JoiningDate: "2022-07-15"},
	}
	f.grants = []equity.Grant{
		{ID: 10, EmployeeID: 1, GrantName: "Founders", TotalOptions: 1000, StrikePriceCents: 150, CliffMonths: 12, VestingMonths: 48},
		{ID: 11, EmployeeID: 99, GrantName: "Orphan", TotalOptions: 50, StrikePriceCents: 0, CliffMonths: 0, VestingMonths: 12},
	}
	f.dashboard = &equity.DashboardSummary{
		TotalEmployees: 2, ActiveEmployees: 1, TotalGrants: 2,
		PoolSize: 4000, PoolAllocated: 1050, PoolRemaining: 2950,
		VestedOptions: 500, UnvestedOptions: 550, ExercisedOptions: 100,
		GrantSummaries: []equity.GrantSummary{
			{GrantID: 10, EmployeeID: 1, EmployeeName: "Ada Lovelace", GrantName: "Founders", TotalOptions: 1000, VestedOptions: 500, ExercisedOptions: 100, AvailableToExercise: 400},
		},
	}
	f.exercises[10] = []equity.Exercise{{ID: 1, GrantID: 10, ExerciseDate: "2024-05-01", OptionsExercised: 100, PricePerOptionCents: 150}}
	return f
}
