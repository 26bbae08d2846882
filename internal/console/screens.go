package console

import (
	"slices"
	"strings"

	"github.com/sankshitpandoh/CapLedger/pkg/equity"
)

// Screen is a top-level console view.
type Screen string

// Screens.
const (
	ScreenDashboard Screen = "dashboard"
	ScreenEmployees Screen = "employees"
	ScreenGrants    Screen = "grants"
	ScreenExercises Screen = "exercises"
)

// ScreenMeta is the heading shown above a screen.
type ScreenMeta struct {
	Title    string
	Subtitle string
}

var screenOrder = []Screen{ScreenDashboard, ScreenEmployees, ScreenGrants, ScreenExercises}

var screenMeta = map[Screen]ScreenMeta{
	ScreenDashboard: {Title: "Dashboard", Subtitle: "Real-time ESOP metrics and vesting position."},
	ScreenEmployees: {Title: "Employees", Subtitle: "Onboard, track, and search your cap-table participants."},
	ScreenGrants:    {Title: "Grants", Subtitle: "Create grants and monitor vesting availability across the organization."},
	ScreenExercises: {Title: "Exercises", Subtitle: "Review option exercise history and availability."},
}

// Meta returns the title and subtitle of s.
func (s Screen) Meta() ScreenMeta {
	return screenMeta[s]
}

// Known reports whether s names a screen.
func (s Screen) Known() bool {
	_, ok := screenMeta[s]
	return ok
}

// AllScreens returns every screen in navigation order.
func AllScreens() []Screen {
	return slices.Clone(screenOrder)
}

// AllowedScreens returns the screens role may open. Admins see everything;
// every other role, including an unknown one, gets dashboard and exercises.
func AllowedScreens(role equity.Role) []Screen {
	if role.IsAdmin() {
		return AllScreens()
	}
	return []Screen{ScreenDashboard, ScreenExercises}
}

// Normalize maps raw to a screen in allowed, falling back to the dashboard
// for unknown or disallowed names.
func Normalize(raw string, allowed []Screen) Screen {
	s := Screen(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Known() || !slices.Contains(allowed, s) {
		return ScreenDashboard
	}
	return s
}
