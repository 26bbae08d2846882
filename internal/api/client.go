// Package api is the typed client for the ESOP backend's REST endpoints.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sankshitpandoh/CapLedger/internal/transport"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// Endpoint paths.
const (
	PathSessionMe = "/api/auth/me"
	PathLogout    = "/api/auth/logout"
	PathLogin     = "/api/auth/login"
	PathCallback  = "/api/auth/callback"
	PathEmployees = "/api/employees"
	PathGrants    = "/api/grants"
	PathDashboard = "/api/dashboard/summary"
)

// Client calls the backend through a transport.Client.
type Client struct {
	tc       *transport.Client
	pageSize int
}

// New wraps tc. pageSize <= 0 selects the default page size.
func New(tc *transport.Client, pageSize int) *Client {
	return &Client{tc: tc, pageSize: pageSize}
}

// Transport returns the underlying transport client.
func (c *Client) Transport() *transport.Client {
	return c.tc
}

// WithCredential returns a client for another session over the same
// backend. Session-expired hooks are not shared.
func (c *Client) WithCredential(credential string) *Client {
	return &Client{tc: c.tc.WithCredential(credential), pageSize: c.pageSize}
}

// OnSessionExpired registers fn to run on any HTTP 401.
func (c *Client) OnSessionExpired(fn func()) {
	c.tc.OnSessionExpired(fn)
}

// Me loads the current session.
func (c *Client) Me(ctx context.Context) (equity.Session, error) {
	var s equity.Session
	if err := c.tc.Get(ctx, PathSessionMe, nil, &s); err != nil {
		return equity.Session{}, err
	}
	return s, s.Validate()
}

// Logout ends the backend session. Both 204 and a JSON acknowledgement count
// as success.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.tc.Send(ctx, http.MethodPost, PathLogout, nil, nil)
	return err
}

// EmployeeFilter narrows ListEmployees on the server.
type EmployeeFilter struct {
	Status equity.EmployeeStatus
}

// ListEmployees fetches every employee page by page.
func (c *Client) ListEmployees(ctx context.Context, f EmployeeFilter) ([]equity.Employee, error) {
	extra := url.Values{}
	if f.Status != "" {
		extra.Set("status", string(f.Status))
	}
	return fetchAllFrom[equity.Employee](ctx, c, PathEmployees, extra)
}

// CreateEmployee creates an employee.
func (c *Client) CreateEmployee(ctx context.Context, p equity.EmployeeCreate) (equity.Employee, error) {
	if err := p.Validate(); err != nil {
		return equity.Employee{}, err
	}
	var e equity.Employee
	if _, err := c.tc.Send(ctx, http.MethodPost, PathEmployees, p, &e); err != nil {
		return equity.Employee{}, err
	}
	return e, e.Validate()
}

// UpdateEmployee patches the fields set in p.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, p equity.EmployeeUpdate) (equity.Employee, error) {
	if err := p.Validate(); err != nil {
		return equity.Employee{}, err
	}
	var e equity.Employee
	if _, err := c.tc.Send(ctx, http.MethodPatch, itemPath(PathEmployees, id), p, &e); err != nil {
		return equity.Employee{}, err
	}
	return e, e.Validate()
}

// DeactivateEmployee marks an employee inactive.
func (c *Client) DeactivateEmployee(ctx context.Context, id int64) (equity.Employee, error) {
	var e equity.Employee
	if _, err := c.tc.Send(ctx, http.MethodDelete, itemPath(PathEmployees, id), nil, &e); err != nil {
		return equity.Employee{}, err
	}
	return e, e.Validate()
}

// GrantFilter narrows ListGrants on the server.
type GrantFilter struct {
	EmployeeID int64
}

// ListGrants fetches every grant visible to the session page by page.
func (c *Client) ListGrants(ctx context.Context, f GrantFilter) ([]equity.Grant, error) {
	extra := url.Values{}
	if f.EmployeeID > 0 {
		extra.Set("employee_id", strconv.FormatInt(f.EmployeeID, 10))
	}
	return fetchAllFrom[equity.Grant](ctx, c, PathGrants, extra)
}

// CreateGrant creates an option grant.
func (c *Client) CreateGrant(ctx context.Context, p equity.GrantCreate) (equity.Grant, error) {
	if err := p.Validate(); err != nil {
		return equity.Grant{}, err
	}
	var g equity.Grant
	if _, err := c.tc.Send(ctx, http.MethodPost, PathGrants, p, &g); err != nil {
		return equity.Grant{}, err
	}
	return g, g.Validate()
}

// UpdateGrant patches the fields set in p. The backend rechecks the merged
// schedule, the exercised total and the pool.
func (c *Client) UpdateGrant(ctx context.Context, id int64, p equity.GrantUpdate) (equity.Grant, error) {
	if err := p.Validate(); err != nil {
		return equity.Grant{}, err
	}
	var g equity.Grant
	if _, err := c.tc.Send(ctx, http.MethodPatch, itemPath(PathGrants, id), p, &g); err != nil {
		return equity.Grant{}, err
	}
	return g, g.Validate()
}

// GrantSummary loads the vesting position of one grant. An empty asOf lets
// the backend use today.
func (c *Client) GrantSummary(ctx context.Context, grantID int64, asOf string) (equity.GrantSummary, error) {
	var s equity.GrantSummary
	if err := c.tc.Get(ctx, itemPath(PathGrants, grantID)+"/summary", asOfQuery(asOf), &s); err != nil {
		return equity.GrantSummary{}, err
	}
	return s, s.Validate()
}

// DashboardSummary loads the pool aggregates for asOf.
func (c *Client) DashboardSummary(ctx context.Context, asOf string) (*equity.DashboardSummary, error) {
	var d equity.DashboardSummary
	if err := c.tc.Get(ctx, PathDashboard, asOfQuery(asOf), &d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Exercises lists the exercise history of a grant.
func (c *Client) Exercises(ctx context.Context, grantID int64) ([]equity.Exercise, error) {
	var out []equity.Exercise
	if err := c.tc.Get(ctx, exercisesPath(grantID), nil, &out); err != nil {
		return nil, err
	}
	for _, e := range out {
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RecordExercise records an exercise against a grant.
func (c *Client) RecordExercise(ctx context.Context, grantID int64, p equity.ExerciseCreate) (equity.Exercise, error) {
	if grantID <= 0 {
		return equity.Exercise{}, errors.NewValidationError("grant_id", grantID, "select a grant")
	}
	if err := p.Validate(); err != nil {
		return equity.Exercise{}, err
	}
	var e equity.Exercise
	if _, err := c.tc.Send(ctx, http.MethodPost, exercisesPath(grantID), p, &e); err != nil {
		return equity.Exercise{}, err
	}
	return e, e.Validate()
}

type validator interface {
	Validate() error
}

func fetchAllFrom[T validator](ctx context.Context, c *Client, path string, extra url.Values) ([]T, error) {
	fetch := func(ctx context.Context, limit, offset int) ([]T, error) {
		q := pageQuery(limit, offset)
		for k, v := range extra {
			q[k] = v
		}
		var page []T
		if err := c.tc.Get(ctx, path, q, &page); err != nil {
			return nil, err
		}
		for _, item := range page {
			if err := item.Validate(); err != nil {
				return nil, err
			}
		}
		return page, nil
	}
	return FetchAll[T](ctx, fetch, Pagination{PageSize: c.pageSize})
}

func itemPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

func exercisesPath(grantID int64) string {
	return itemPath(PathGrants, grantID) + "/exercises"
}

func asOfQuery(asOf string) url.Values {
	if asOf == "" {
		return nil
	}
	return url.Values{"as_of": {asOf}}
}
