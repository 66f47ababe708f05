package hr

import (
	"net/mail"
	"strings"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmploymentStatus is the current standing of an employee
type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "Active"
	EmploymentStatusOnLeave    EmploymentStatus = "OnLeave"
	EmploymentStatusTerminated EmploymentStatus = "Terminated"
)

// EmploymentClassification is the contract category of an employee
type EmploymentClassification string

const (
	ClassificationRegular      EmploymentClassification = "Regular"
	ClassificationProbationary EmploymentClassification = "Probationary"
	ClassificationContractual  EmploymentClassification = "Contractual"
	ClassificationProjectBased EmploymentClassification = "ProjectBased"
	ClassificationSeasonal     EmploymentClassification = "Seasonal"
	ClassificationCasual       EmploymentClassification = "Casual"
)

// EmploymentClassifications lists every accepted classification
var EmploymentClassifications = []EmploymentClassification{
	ClassificationRegular,
	ClassificationProbationary,
	ClassificationContractual,
	ClassificationProjectBased,
	ClassificationSeasonal,
	ClassificationCasual,
}

// ParseEmploymentClassification resolves a classification; empty means Regular
func ParseEmploymentClassification(value string) (EmploymentClassification, error) {
	if strings.TrimSpace(value) == "" {
		return ClassificationRegular, nil
	}
	c, ok := shared.NormalizeEnum(value, EmploymentClassifications...)
	if !ok {
		return "", shared.NewDomainError("INVALID_CLASSIFICATION", "Invalid employment classification: "+value)
	}
	return c, nil
}

// Employee is a person on the tenant's payroll
type Employee struct {
	shared.TenantAggregateRoot
	EmployeeNumber           string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_employee_tenant_number,priority:2"`
	FirstName                string                   `gorm:"type:varchar(100);not null"`
	MiddleName               string                   `gorm:"type:varchar(100)"`
	LastName                 string                   `gorm:"type:varchar(100);not null"`
	Email                    string                   `gorm:"type:varchar(256)"`
	PhoneNumber              string                   `gorm:"type:varchar(20)"`
	HireDate                 *time.Time
	Status                   EmploymentStatus         `gorm:"type:varchar(20);not null;index"`
	EmploymentClassification EmploymentClassification `gorm:"type:varchar(20);not null"`
	RegularizationDate       *time.Time
	BasicMonthlySalary       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TerminationDate          *time.Time
	TerminationReason        string `gorm:"type:varchar(500)"`
	TerminationMode          string `gorm:"type:varchar(50)"`
	IsActive                 bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "hr_employees"
}

// FullName joins first, middle and last names
func (e *Employee) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.FirstName, e.MiddleName, e.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NewEmployee creates an active employee
func NewEmployee(tenantID uuid.UUID, number, firstName, lastName string, classification EmploymentClassification) (*Employee, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number is required")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_NUMBER", "Employee number cannot exceed 50 characters")
	}
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if err := validatePersonName("First name", firstName, true); err != nil {
		return nil, err
	}
	if err := validatePersonName("Last name", lastName, true); err != nil {
		return nil, err
	}
	c, err := ParseEmploymentClassification(string(classification))
	if err != nil {
		return nil, err
	}

	e := &Employee{
		TenantAggregateRoot:      shared.NewTenantAggregateRoot(tenantID),
		EmployeeNumber:           number,
		FirstName:                firstName,
		LastName:                 lastName,
		Status:                   EmploymentStatusActive,
		EmploymentClassification: c,
		BasicMonthlySalary:       decimal.Zero,
		IsActive:                 true,
	}
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeCreated, e))
	return e, nil
}

// UpdateContactInfo changes email and phone; nil or unchanged values are ignored
func (e *Employee) UpdateContactInfo(email, phone *string) (bool, error) {
	changed := false
	if email != nil && strings.TrimSpace(*email) != e.Email {
		v := strings.TrimSpace(*email)
		if v != "" {
			if len(v) > 256 {
				return false, shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 256 characters")
			}
			if _, err := mail.ParseAddress(v); err != nil {
				return false, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
			}
		}
		e.Email = v
		changed = true
	}
	if phone != nil && strings.TrimSpace(*phone) != e.PhoneNumber {
		v := strings.TrimSpace(*phone)
		if len(v) > 20 {
			return false, shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
		}
		e.PhoneNumber = v
		changed = true
	}
	if changed {
		e.Touch()
		e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeContactInfoUpdated, e))
	}
	return changed, nil
}

// UpdatePersonalInfo changes the employee's names
func (e *Employee) UpdatePersonalInfo(firstName, middleName, lastName *string) (bool, error) {
	changed := false
	if firstName != nil && strings.TrimSpace(*firstName) != e.FirstName {
		v := strings.TrimSpace(*firstName)
		if err := validatePersonName("First name", v, true); err != nil {
			return false, err
		}
		e.FirstName = v
		changed = true
	}
	if middleName != nil && strings.TrimSpace(*middleName) != e.MiddleName {
		v := strings.TrimSpace(*middleName)
		if err := validatePersonName("Middle name", v, false); err != nil {
			return false, err
		}
		e.MiddleName = v
		changed = true
	}
	if lastName != nil && strings.TrimSpace(*lastName) != e.LastName {
		v := strings.TrimSpace(*lastName)
		if err := validatePersonName("Last name", v, true); err != nil {
			return false, err
		}
		e.LastName = v
		changed = true
	}
	if changed {
		e.Touch()
		e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeePersonalInfoUpdated, e))
	}
	return changed, nil
}

// SetHireDate records the hire date and puts the employee back to Active
func (e *Employee) SetHireDate(hireDate time.Time) error {
	if e.Status == EmploymentStatusTerminated {
		return shared.NewInvalidStateError("Cannot hire a terminated employee")
	}
	e.HireDate = &hireDate
	e.Status = EmploymentStatusActive
	e.Touch()
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeHired, e))
	return nil
}

// MarkOnLeave puts an active employee on leave
func (e *Employee) MarkOnLeave() error {
	if e.Status == EmploymentStatusTerminated {
		return shared.NewInvalidStateError("Terminated employees cannot go on leave")
	}
	if e.Status == EmploymentStatusOnLeave {
		return nil
	}
	e.Status = EmploymentStatusOnLeave
	e.Touch()
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeOnLeave, e))
	return nil
}

// ReturnFromLeave makes an employee on leave active again
func (e *Employee) ReturnFromLeave() error {
	if e.Status != EmploymentStatusOnLeave {
		return nil
	}
	e.Status = EmploymentStatusActive
	e.Touch()
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeReturnedFromLeave, e))
	return nil
}

// Terminate ends employment. Terminated employees cannot be terminated again.
func (e *Employee) Terminate(date time.Time, reason, mode string) error {
	if e.Status == EmploymentStatusTerminated {
		return shared.NewInvalidStateError("Employee is already terminated")
	}
	if date.IsZero() {
		date = time.Now()
	}
	e.TerminationDate = &date
	e.TerminationReason = shared.TruncateString(reason, 500)
	e.TerminationMode = shared.TruncateString(mode, 50)
	e.Status = EmploymentStatusTerminated
	e.IsActive = false
	e.Touch()
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeTerminated, e))
	return nil
}

// Regularize converts the employee to Regular classification as of date
func (e *Employee) Regularize(date time.Time) error {
	if e.Status == EmploymentStatusTerminated {
		return shared.NewInvalidStateError("Terminated employees cannot be regularized")
	}
	if e.EmploymentClassification == ClassificationRegular && e.RegularizationDate != nil {
		return shared.NewInvalidStateError("Employee is already regular")
	}
	if date.IsZero() {
		date = time.Now()
	}
	e.EmploymentClassification = ClassificationRegular
	e.RegularizationDate = &date
	e.Touch()
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeRegularized, e))
	return nil
}

// SetBasicSalary sets the basic monthly salary
func (e *Employee) SetBasicSalary(salary decimal.Decimal) error {
	if salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Basic salary cannot be negative")
	}
	if salary.Equal(e.BasicMonthlySalary) {
		return nil
	}
	e.BasicMonthlySalary = salary
	e.Touch()
	e.AddDomainEvent(NewEmployeeEvent(EventTypeEmployeeSalaryChanged, e))
	return nil
}

// IsTerminated reports whether the employee has left
func (e *Employee) IsTerminated() bool {
	return e.Status == EmploymentStatusTerminated
}

func validatePersonName(field, name string, required bool) error {
	if name == "" && required {
		return shared.NewDomainError("INVALID_NAME", field+" is required")
	}
	if shared.RuneLen(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", field+" cannot exceed 100 characters")
	}
	return nil
}
