package console

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// errSuperseded is returned by a refresh that a newer refresh replaced.
var errSuperseded = errors.New("refresh superseded")

// refresh reloads employees, grants and the dashboard summary concurrently,
// commits them together, then loads the exercise history of the selected
// grant. Starting a refresh cancels any refresh already in flight; only the
// newest one commits.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshCancel != nil {
		c.refreshCancel()
	}
	c.refreshGen++
	gen := c.refreshGen
	rctx, cancel := context.WithCancel(ctx)
	c.refreshCancel = cancel
	asOf := c.state.AsOf
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.refreshGen == gen {
			c.refreshCancel = nil
		}
		c.mu.Unlock()
	}()

	var (
		employees []equity.Employee
		grants    []equity.Grant
		dashboard *equity.DashboardSummary
	)
	p := pool.New().WithContext(rctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) (err error) {
		employees, err = c.api.ListEmployees(ctx, api.EmployeeFilter{})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		grants, err = c.api.ListGrants(ctx, api.GrantFilter{})
		return err
	})
	p.Go(func(ctx context.Context) (err error) {
		dashboard, err = c.api.DashboardSummary(ctx, asOf)
		return err
	})
	if err := p.Wait(); err != nil {
		if c.superseded(gen) {
			return errSuperseded
		}
		c.log(ctx).Debug().Err(err).Msg("refresh failed")
		return err
	}

	c.mu.Lock()
	if c.refreshGen != gen {
		c.mu.Unlock()
		return errSuperseded
	}
	c.state.Employees = employees
	c.state.Grants = grants
	c.state.Dashboard = dashboard
	c.state.reconcileSelection()
	selected := c.state.SelectedGrantID
	c.mu.Unlock()

	c.log(ctx).Debug().
		Int("employees", len(employees)).
		Int("grants", len(grants)).
		Str("as_of", asOf).
		Msg("refresh committed")

	return c.loadExerciseHistory(rctx, selected, gen)
}

func (c *Controller) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshGen != gen
}

// loadExerciseHistory replaces the history with the exercises of grantID, or
// clears it when grantID is 0. A non-zero gen ties the load to that refresh.
// The result is dropped if the selection moved on meanwhile.
func (c *Controller) loadExerciseHistory(ctx context.Context, grantID int64, gen uint64) error {
	if grantID == 0 {
		c.mutate(func(s *State) { s.ExerciseHistory = nil })
		return nil
	}

	history, err := c.api.Exercises(ctx, grantID)
	if err != nil {
		if gen != 0 && c.superseded(gen) {
			return errSuperseded
		}
		return err
	}
	c.log(ctx).Debug().Int("exercises", len(history)).Msg("exercise history loaded")

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != 0 && c.refreshGen != gen {
		return errSuperseded
	}
	if c.state.SelectedGrantID == grantID {
		c.state.ExerciseHistory = history
	}
	return nil
}
