// Package hr covers employees and payroll.
package hr

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is a member of staff. EmployeeCode is issued from the employee sequence.
type Employee struct {
	shared.TenantAggregateRoot
	shared.SoftDelete
	EmployeeCode string
	Name         string
	Email        string
	Phone        string
	Department   string
	Designation  string
	JoiningDate  time.Time
	GrossSalary  decimal.Decimal
	IsActive     bool
}

// NewEmployee creates an active, unnumbered employee
func NewEmployee(tenantID uuid.UUID, name, department, designation string, joining time.Time, gross decimal.Decimal) (*Employee, error) {
	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Department:          strings.TrimSpace(department),
		Designation:         strings.TrimSpace(designation),
		JoiningDate:         joining,
		GrossSalary:         gross,
		IsActive:            true,
	}
	if e.Name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if gross.IsNegative() {
		return nil, shared.NewValidationError("gross_salary", "cannot be negative")
	}
	return e, nil
}

// AssignCode sets the employee code once
func (e *Employee) AssignCode(code string) error {
	if e.EmployeeCode != "" {
		return shared.NewDomainError(shared.CodeInvalidState, "employee already has a code")
	}
	e.EmployeeCode = code
	return nil
}

// ReviseSalary sets a new gross salary
func (e *Employee) ReviseSalary(gross decimal.Decimal) error {
	if gross.IsNegative() {
		return shared.NewValidationError("gross_salary", "cannot be negative")
	}
	e.GrossSalary = gross
	e.IncrementVersion()
	return nil
}
