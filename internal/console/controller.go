// Package console is the state-owning controller behind every CapLedger front
// end. Front ends send messages to Controller.Update and render the View it
// projects; only the controller mutates state.
package console

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/format"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// Toast and inline messages.
const (
	MsgEmployeeCreated  = "Employee created"
	MsgEmployeeAdded    = "Employee added"
	MsgGrantCreated     = "Grant created"
	MsgExerciseRecorded = "Exercise recorded"
	MsgDataRefreshed    = "Data refreshed"
	MsgLoggedOut        = "Logged out"
)

// API is the backend surface the controller needs. *api.Client satisfies it.
type API interface {
	Me(ctx context.Context) (equity.Session, error)
	Logout(ctx context.Context) error
	ListEmployees(ctx context.Context, f api.EmployeeFilter) ([]equity.Employee, error)
	ListGrants(ctx context.Context, f api.GrantFilter) ([]equity.Grant, error)
	DashboardSummary(ctx context.Context, asOf string) (*equity.DashboardSummary, error)
	Exercises(ctx context.Context, grantID int64) ([]equity.Exercise, error)
	CreateEmployee(ctx context.Context, p equity.EmployeeCreate) (equity.Employee, error)
	CreateGrant(ctx context.Context, p equity.GrantCreate) (equity.Grant, error)
	RecordExercise(ctx context.Context, grantID int64, p equity.ExerciseCreate) (equity.Exercise, error)
	OnSessionExpired(fn func())
}

// Controller owns the console state. It is safe for concurrent use; backend
// calls are made without holding the state lock.
type Controller struct {
	api    API
	today  func() string
	asOf   string
	logger *zerolog.Logger

	mu    sync.Mutex
	state State

	// refreshGen identifies the newest refresh; older ones never commit.
	refreshGen    uint64
	refreshCancel context.CancelFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides how the controller learns today's date.
func WithClock(today func() string) Option {
	return func(c *Controller) {
		if today != nil {
			c.today = today
		}
	}
}

// WithAsOf starts the console at date instead of today.
func WithAsOf(date string) Option {
	return func(c *Controller) {
		c.asOf = date
	}
}

// WithLogger sets the controller logger. A logger carried by the context
// of an Update takes precedence.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a controller over backend and registers its 401 handler.
func New(backend API, opts ...Option) *Controller {
	c := &Controller{
		api:    backend,
		today:  format.Today,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = NewState(c.today())
	if c.asOf != "" {
		c.state.AsOf = c.asOf
	}
	backend.OnSessionExpired(c.expireSession)
	return c
}

// Open creates a controller over backend and bootstraps it. An anonymous
// session fails with a session-expired error.
func Open(ctx context.Context, backend API, opts ...Option) (*Controller, error) {
	c := New(backend, opts...)
	if res := c.Update(ctx, Bootstrap{}); res.Err != nil {
		return nil, res.Err
	}
	if !c.State().Auth.Authenticated {
		return nil, errors.NewSessionExpiredError(api.PathSessionMe)
	}
	return c, nil
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Allowed reports whether the signed-in role may open screen.
func (c *Controller) Allowed(screen Screen) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Auth.Authenticated && Normalize(string(screen), c.state.AllowedScreens) == screen
}

// Update applies msg and returns any toast it produced.
func (c *Controller) Update(ctx context.Context, msg Msg) Result {
	switch m := msg.(type) {
	case Bootstrap:
		return c.bootstrap(ctx)
	case Navigate:
		c.mutate(func(s *State) { s.Screen = Normalize(m.Screen, s.AllowedScreens) })
	case SetEmployeeSearch:
		c.mutate(func(s *State) { s.EmployeeSearch = m.Query })
	case SetEmployeeStatus:
		c.mutate(func(s *State) { s.EmployeeStatus = orDefault(m.Status, StatusAll) })
	case SetGrantSearch:
		c.mutate(func(s *State) { s.GrantSearch = m.Query })
	case SetAsOf:
		date := m.Date
		if date == "" {
			date = c.today()
		}
		c.mutate(func(s *State) { s.AsOf = date })
		if err := c.refresh(ctx); err != nil {
			return c.refreshFailure(err)
		}
	case Refresh:
		if err := c.refresh(ctx); err != nil {
			return c.refreshFailure(err)
		}
		return success(MsgDataRefreshed)
	case SelectExerciseGrant:
		return c.selectGrant(ctx, m.GrantID)
	case SubmitEmployee:
		return c.submitEmployee(ctx, m.Form)
	case SubmitGrant:
		return c.submitGrant(ctx, m.Form)
	case SubmitExercise:
		return c.submitExercise(ctx, m.Form)
	case Logout:
		return c.logout(ctx)
	}
	return Result{}
}

func (c *Controller) log(ctx context.Context) *zerolog.Logger {
	return logging.FromContextOr(ctx, c.logger)
}

func (c *Controller) mutate(fn func(s *State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// expireSession runs on any HTTP 401: the console falls back to the sign-in
// gate while keeping cached data for the next sign-in.
func (c *Controller) expireSession() {
	c.mutate(func(s *State) {
		s.Auth.Authenticated = false
	})
	c.logger.Warn().Msg("backend session expired")
}

func (c *Controller) bootstrap(ctx context.Context) Result {
	session, err := c.api.Me(ctx)
	if err != nil {
		return failure(err)
	}

	today := c.today()
	c.mutate(func(s *State) {
		s.applyAuth(session)
		s.EmployeeForm = DefaultEmployeeForm(today)
		s.GrantForm = DefaultGrantForm(today)
		s.ExerciseForm = DefaultExerciseForm(today)
	})
	if !session.Authenticated {
		return Result{}
	}

	c.log(ctx).Debug().Str("role", string(session.Role())).Msg("session loaded")
	if err := c.refresh(ctx); err != nil {
		return c.refreshFailure(err)
	}
	return Result{}
}

// selectGrant points the exercise screen at a cached grant, or clears the
// selection for 0. Unknown ids leave the selection as it was.
func (c *Controller) selectGrant(ctx context.Context, grantID int64) Result {
	known := true
	c.mutate(func(s *State) {
		if grantID != 0 {
			if _, known = s.GrantByID(grantID); !known {
				return
			}
		}
		s.SelectedGrantID = grantID
		s.ExerciseForm.GrantID = ""
		if grantID != 0 {
			s.ExerciseForm.GrantID = strconv.FormatInt(grantID, 10)
		}
	})
	if !known {
		return failure(errors.NewNotFoundError("grant", strconv.FormatInt(grantID, 10)))
	}
	if err := c.loadExerciseHistory(logging.WithGrant(ctx, grantID), grantID, 0); err != nil {
		return failure(err)
	}
	return Result{}
}

func (c *Controller) refreshFailure(err error) Result {
	if errors.Is(err, errSuperseded) {
		return Result{}
	}
	return failure(err)
}

func (c *Controller) requireAdmin(action string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Auth.IsAdmin() {
		return errors.NewAccessError(string(c.state.Auth.Role), action)
	}
	return nil
}

func (c *Controller) submitEmployee(ctx context.Context, form EmployeeForm) Result {
	c.mutate(func(s *State) {
		s.EmployeeForm = form
		s.EmployeeMessage = FormMessage{}
	})
	fail := func(err error) Result {
		c.mutate(func(s *State) { s.EmployeeMessage = FormMessage{Text: err.Error()} })
		return failure(err)
	}
	if err := c.requireAdmin("employee create"); err != nil {
		return fail(err)
	}

	if _, err := c.api.CreateEmployee(ctx, form.Payload()); err != nil {
		return fail(err)
	}
	today := c.today()
	c.mutate(func(s *State) {
		s.EmployeeMessage = FormMessage{Text: MsgEmployeeCreated, OK: true}
		s.EmployeeForm = DefaultEmployeeForm(today)
	})
	if err := c.refresh(ctx); err != nil && !errors.Is(err, errSuperseded) {
		return fail(err)
	}
	return success(MsgEmployeeAdded)
}

func (c *Controller) submitGrant(ctx context.Context, form GrantForm) Result {
	c.mutate(func(s *State) {
		s.GrantForm = form
		s.GrantMessage = FormMessage{}
	})
	fail := func(err error) Result {
		c.mutate(func(s *State) { s.GrantMessage = FormMessage{Text: err.Error()} })
		return failure(err)
	}
	if err := c.requireAdmin("grant create"); err != nil {
		return fail(err)
	}

	payload, err := form.Payload()
	if err != nil {
		return fail(err)
	}
	if _, err := c.api.CreateGrant(ctx, payload); err != nil {
		return fail(err)
	}
	today := c.today()
	c.mutate(func(s *State) {
		s.GrantMessage = FormMessage{Text: MsgGrantCreated, OK: true}
		s.GrantForm = DefaultGrantForm(today)
	})
	if err := c.refresh(ctx); err != nil && !errors.Is(err, errSuperseded) {
		return fail(err)
	}
	return success(MsgGrantCreated)
}

func (c *Controller) submitExercise(ctx context.Context, form ExerciseForm) Result {
	c.mutate(func(s *State) {
		if form.GrantID == "" && s.SelectedGrantID != 0 {
			form.GrantID = strconv.FormatInt(s.SelectedGrantID, 10)
		}
		s.ExerciseForm = form
		s.ExerciseMessage = FormMessage{}
	})
	fail := func(err error) Result {
		c.mutate(func(s *State) { s.ExerciseMessage = FormMessage{Text: err.Error()} })
		return failure(err)
	}
	if err := c.requireAdmin("exercise record"); err != nil {
		return fail(err)
	}

	grantID, payload, err := form.Payload()
	if err != nil {
		return fail(err)
	}
	if _, err := c.api.RecordExercise(ctx, grantID, payload); err != nil {
		return fail(err)
	}
	today := c.today()
	c.mutate(func(s *State) {
		s.ExerciseMessage = FormMessage{Text: MsgExerciseRecorded, OK: true}
		s.ExerciseForm = DefaultExerciseForm(today)
		s.ExerciseForm.GrantID = strconv.FormatInt(grantID, 10)
		s.SelectedGrantID = grantID
	})
	if err := c.refresh(ctx); err != nil && !errors.Is(err, errSuperseded) {
		return fail(err)
	}
	return success(MsgExerciseRecorded)
}

func (c *Controller) logout(ctx context.Context) Result {
	if err := c.api.Logout(ctx); err != nil {
		return failure(err)
	}
	today := c.today()
	c.mu.Lock()
	if c.refreshCancel != nil {
		c.refreshCancel()
		c.refreshCancel = nil
	}
	c.refreshGen++
	c.state = NewState(today)
	c.mu.Unlock()
	return success(MsgLoggedOut)
}
