package hr

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/hr"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmployeeService handles employee operations
type EmployeeService struct {
	employeeRepo   hr.EmployeeRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo hr.EmployeeRepository, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{employeeRepo: employeeRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *EmployeeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates an active employee
func (s *EmployeeService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	exists, err := s.employeeRepo.ExistsByNumber(ctx, tenantID, req.EmployeeNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee number must be unique")
	}

	employee, err := hr.NewEmployee(tenantID, req.EmployeeNumber, req.FirstName, req.LastName, hr.EmploymentClassification(req.EmploymentClassification))
	if err != nil {
		return nil, err
	}
	if _, err := employee.UpdatePersonalInfo(nil, &req.MiddleName, nil); err != nil {
		return nil, err
	}
	if _, err := employee.UpdateContactInfo(&req.Email, &req.PhoneNumber); err != nil {
		return nil, err
	}
	if req.HireDate != nil {
		if err := employee.SetHireDate(*req.HireDate); err != nil {
			return nil, err
		}
	}
	if req.BasicMonthlySalary != nil {
		if err := employee.SetBasicSalary(*req.BasicMonthlySalary); err != nil {
			return nil, err
		}
	}
	employee.ClearDomainEvents()
	employee.AddDomainEvent(hr.NewEmployeeEvent(hr.EventTypeEmployeeCreated, employee))

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, employee)

	s.logger.Info("employee created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_id", employee.ID.String()),
		zap.String("employee_number", employee.EmployeeNumber),
	)
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Search lists employees matching the request
func (s *EmployeeService) Search(ctx context.Context, tenantID uuid.UUID, req SearchEmployeesRequest) (shared.Paginated[EmployeeResponse], error) {
	filter := req.ToFilter().
		With("status", req.Status).
		With("classification", req.Classification).
		With("is_active", req.IsActive)

	employees, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[EmployeeResponse]{}, err
	}
	total, err := s.employeeRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[EmployeeResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(employees, ToEmployeeResponse), total, filter.Page, filter.PageSize), nil
}

// UpdateContactInfo changes email and phone
func (s *EmployeeService) UpdateContactInfo(ctx context.Context, tenantID, employeeID uuid.UUID, req UpdateContactInfoRequest) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee contact info updated", func(e *hr.Employee) error {
		_, err := e.UpdateContactInfo(req.Email, req.PhoneNumber)
		return err
	})
}

// UpdatePersonalInfo changes the employee's names
func (s *EmployeeService) UpdatePersonalInfo(ctx context.Context, tenantID, employeeID uuid.UUID, req UpdatePersonalInfoRequest) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee personal info updated", func(e *hr.Employee) error {
		_, err := e.UpdatePersonalInfo(req.FirstName, req.MiddleName, req.LastName)
		return err
	})
}

// SetHireDate records the hire date
func (s *EmployeeService) SetHireDate(ctx context.Context, tenantID, employeeID uuid.UUID, hireDate time.Time) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee hired", func(e *hr.Employee) error {
		return e.SetHireDate(hireDate)
	})
}

// MarkOnLeave puts an employee on leave
func (s *EmployeeService) MarkOnLeave(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee on leave", (*hr.Employee).MarkOnLeave)
}

// ReturnFromLeave brings an employee back from leave
func (s *EmployeeService) ReturnFromLeave(ctx context.Context, tenantID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee returned from leave", (*hr.Employee).ReturnFromLeave)
}

// Terminate ends an employee's employment
func (s *EmployeeService) Terminate(ctx context.Context, tenantID, employeeID uuid.UUID, req TerminateEmployeeRequest) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee terminated", func(e *hr.Employee) error {
		var date time.Time
		if req.TerminationDate != nil {
			date = *req.TerminationDate
		}
		return e.Terminate(date, req.Reason, req.Mode)
	})
}

// Regularize converts an employee to Regular classification
func (s *EmployeeService) Regularize(ctx context.Context, tenantID, employeeID uuid.UUID, req RegularizeEmployeeRequest) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee regularized", func(e *hr.Employee) error {
		var date time.Time
		if req.RegularizationDate != nil {
			date = *req.RegularizationDate
		}
		return e.Regularize(date)
	})
}

// SetBasicSalary sets the basic monthly salary
func (s *EmployeeService) SetBasicSalary(ctx context.Context, tenantID, employeeID uuid.UUID, salary decimal.Decimal) (*EmployeeResponse, error) {
	return s.mutate(ctx, tenantID, employeeID, "employee salary changed", func(e *hr.Employee) error {
		return e.SetBasicSalary(salary)
	})
}

// Delete deletes an employee
func (s *EmployeeService) Delete(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	if err := s.employeeRepo.DeleteForTenant(ctx, tenantID, employeeID); err != nil {
		return err
	}
	s.logger.Info("employee deleted", zap.String("employee_id", employeeID.String()))
	return nil
}

// mutate saves only when fn raised an event, so no-op updates leave the version alone
func (s *EmployeeService) mutate(ctx context.Context, tenantID, employeeID uuid.UUID, msg string, fn func(*hr.Employee) error) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	if err := fn(employee); err != nil {
		return nil, err
	}
	if len(employee.GetDomainEvents()) > 0 {
		if err := s.employeeRepo.Save(ctx, employee); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, employee)
		s.logger.Info(msg, zap.String("employee_id", employee.ID.String()))
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}
