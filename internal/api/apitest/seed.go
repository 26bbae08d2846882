package apitest

import (
	"github.com/sankshitpandoh/CapLedger/internal/utils/ptr"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
)

// Tokens accepted after Seed.
const (
	AdminToken    = "admin-token"
	EmployeeToken = "employee-token"
)

// Seed loads a small company: an admin, an employee login for Ada (id 1),
// Ada and an inactive Bob, one 1,000-option grant for Ada and one exercise
// of 100 options against it.
func (b *Backend) Seed() {
	b.AddSession(AdminToken, equity.AuthUser{ID: 1, Email: "ops@acme.io", FullName: "Ops Admin", Role: equity.RoleAdmin})
	b.AddSession(EmployeeToken, equity.AuthUser{ID: 2, Email: "ada@acme.io", FullName: "Ada Lovelace", Role: equity.RoleEmployee, EmployeeID: ptr.To(int64(1))})

	b.AddEmployee(equity.Employee{ID: 1, EmployeeCode: "E-001", FullName: "Ada Lovelace", Email: "ada@acme.io", Status: equity.StatusActive, JoiningDate: "2023-02-01"})
	b.AddEmployee(equity.Employee{ID: 2, EmployeeCode: "E-002", FullName: "Bob Stone", Email: "bob@acme.io", Status: equity.StatusInactive, JoiningDate: "2022-07-15"})

	b.AddGrant(equity.Grant{
		ID: 10, EmployeeID: 1, GrantName: "Founders", GrantDate: "2023-02-01", VestingStartDate: "2023-02-01",
		TotalOptions: 1000, StrikePriceCents: 150, CliffMonths: 12, VestingMonths: 48, VestingFrequencyMonths: 1,
	})
	b.AddExercise(equity.Exercise{ID: 1, GrantID: 10, ExerciseDate: "2024-05-01", OptionsExercised: 100, PricePerOptionCents: 150})
}
