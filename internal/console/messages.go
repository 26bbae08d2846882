package console

// Msg is an input to Controller.Update.
type Msg interface {
	isMsg()
}

// Bootstrap loads the session, applies role gating and runs the first refresh.
type Bootstrap struct{}

// Navigate switches the visible screen.
type Navigate struct{ Screen string }

// SetEmployeeSearch sets the employee free-text filter.
type SetEmployeeSearch struct{ Query string }

// SetEmployeeStatus sets the employee status filter ("all", "active", "inactive").
type SetEmployeeStatus struct{ Status string }

// SetGrantSearch sets the grant free-text filter.
type SetGrantSearch struct{ Query string }

// SetAsOf changes the as-of date and refreshes. Blank means today.
type SetAsOf struct{ Date string }

// Refresh reloads every collection.
type Refresh struct{}

// SelectExerciseGrant selects the grant whose exercise history is shown.
type SelectExerciseGrant struct{ GrantID int64 }

// SubmitEmployee submits the employee form.
type SubmitEmployee struct{ Form EmployeeForm }

// SubmitGrant submits the grant form.
type SubmitGrant struct{ Form GrantForm }

// SubmitExercise submits the exercise form.
type SubmitExercise struct{ Form ExerciseForm }

// Logout ends the session.
type Logout struct{}

func (Bootstrap) isMsg()           {}
func (Navigate) isMsg()            {}
func (SetEmployeeSearch) isMsg()   {}
func (SetEmployeeStatus) isMsg()   {}
func (SetGrantSearch) isMsg()      {}
func (SetAsOf) isMsg()             {}
func (Refresh) isMsg()             {}
func (SelectExerciseGrant) isMsg() {}
func (SubmitEmployee) isMsg()      {}
func (SubmitGrant) isMsg()         {}
func (SubmitExercise) isMsg()      {}
func (Logout) isMsg()              {}

// ToastKind distinguishes success and error notices.
type ToastKind string

// Toast kinds.
const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notice produced by an update.
type Toast struct {
	Message string
	Kind    ToastKind
}

// Result is what an update produced besides the new state.
type Result struct {
	// Toast is nil when the update has nothing to announce.
	Toast *Toast

	// Err is the failure behind an error toast, for callers that exit on it.
	Err error
}

func success(msg string) Result {
	return Result{Toast: &Toast{Message: msg, Kind: ToastSuccess}}
}

func failure(err error) Result {
	return Result{Toast: &Toast{Message: err.Error(), Kind: ToastError}, Err: err}
}
