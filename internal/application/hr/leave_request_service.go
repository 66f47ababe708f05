package hr

import (
	"context"

	"github.com/erp/lobapi/internal/domain/hr"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeaveRequestService handles the leave request workflow
type LeaveRequestService struct {
	leaveRepo      hr.LeaveRequestRepository
	employeeRepo   hr.EmployeeRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLeaveRequestService creates a new LeaveRequestService
func NewLeaveRequestService(leaveRepo hr.LeaveRequestRepository, employeeRepo hr.EmployeeRepository, logger *zap.Logger) *LeaveRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveRequestService{leaveRepo: leaveRepo, employeeRepo: employeeRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *LeaveRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create files a draft leave request for an employee who is still employed
func (s *LeaveRequestService) Create(ctx context.Context, tenantID uuid.UUID, req CreateLeaveRequest) (*LeaveRequestResponse, error) {
	employee, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee.IsTerminated() {
		return nil, shared.NewInvalidStateError("Terminated employees cannot file leave requests")
	}

	leave, err := hr.NewLeaveRequest(tenantID, employee.ID, req.LeaveType, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return nil, err
	}
	leave.SetAttachmentPath(req.AttachmentPath)

	if err := s.leaveRepo.Save(ctx, leave); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, leave)

	s.logger.Info("leave request created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("leave_request_id", leave.ID.String()),
		zap.String("employee_id", employee.ID.String()),
		zap.Int("days", leave.NumberOfDays),
	)
	response := ToLeaveRequestResponse(leave)
	return &response, nil
}

// GetByID retrieves a leave request
func (s *LeaveRequestService) GetByID(ctx context.Context, tenantID, leaveID uuid.UUID) (*LeaveRequestResponse, error) {
	leave, err := s.leaveRepo.FindByIDForTenant(ctx, tenantID, leaveID)
	if err != nil {
		return nil, err
	}
	response := ToLeaveRequestResponse(leave)
	return &response, nil
}

// Search lists leave requests matching the request
func (s *LeaveRequestService) Search(ctx context.Context, tenantID uuid.UUID, req SearchLeaveRequestsRequest) (shared.Paginated[LeaveRequestResponse], error) {
	filter := req.ToFilter().
		With("leave_type", req.LeaveType).
		With("status", req.Status).
		With("from", req.From).
		With("to", req.To)
	if req.EmployeeID != nil {
		filter = filter.With("employee_id", *req.EmployeeID)
	}

	leaves, err := s.leaveRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[LeaveRequestResponse]{}, err
	}
	total, err := s.leaveRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[LeaveRequestResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(leaves, ToLeaveRequestResponse), total, filter.Page, filter.PageSize), nil
}

// Update edits a draft leave request
func (s *LeaveRequestService) Update(ctx context.Context, tenantID, leaveID uuid.UUID, req UpdateLeaveRequest) (*LeaveRequestResponse, error) {
	leave, err := s.leaveRepo.FindByIDForTenant(ctx, tenantID, leaveID)
	if err != nil {
		return nil, err
	}
	changed, err := leave.Update(req.LeaveType, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return nil, err
	}
	if req.AttachmentPath != nil && *req.AttachmentPath != leave.AttachmentPath {
		leave.SetAttachmentPath(*req.AttachmentPath)
		changed = true
	}
	if changed {
		if err := s.leaveRepo.Save(ctx, leave); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, leave)
		s.logger.Info("leave request updated", zap.String("leave_request_id", leave.ID.String()))
	}
	response := ToLeaveRequestResponse(leave)
	return &response, nil
}

// Submit sends a draft request for approval
func (s *LeaveRequestService) Submit(ctx context.Context, tenantID, leaveID uuid.UUID) (*LeaveRequestResponse, error) {
	return s.mutate(ctx, tenantID, leaveID, "leave request submitted", (*hr.LeaveRequest).Submit)
}

// Approve approves a submitted request
func (s *LeaveRequestService) Approve(ctx context.Context, tenantID, leaveID uuid.UUID, req ApproveLeaveRequest) (*LeaveRequestResponse, error) {
	return s.mutate(ctx, tenantID, leaveID, "leave request approved", func(l *hr.LeaveRequest) error {
		return l.Approve(req.ApproverID, req.Comment)
	})
}

// Reject rejects a submitted request
func (s *LeaveRequestService) Reject(ctx context.Context, tenantID, leaveID uuid.UUID, req RejectLeaveRequest) (*LeaveRequestResponse, error) {
	return s.mutate(ctx, tenantID, leaveID, "leave request rejected", func(l *hr.LeaveRequest) error {
		return l.Reject(req.ApproverID, req.Reason)
	})
}

// Cancel withdraws a draft or submitted request
func (s *LeaveRequestService) Cancel(ctx context.Context, tenantID, leaveID uuid.UUID) (*LeaveRequestResponse, error) {
	return s.mutate(ctx, tenantID, leaveID, "leave request cancelled", (*hr.LeaveRequest).Cancel)
}

// Delete deletes a draft or rejected request
func (s *LeaveRequestService) Delete(ctx context.Context, tenantID, leaveID uuid.UUID) error {
	leave, err := s.leaveRepo.FindByIDForTenant(ctx, tenantID, leaveID)
	if err != nil {
		return err
	}
	if err := leave.CanDelete(); err != nil {
		return err
	}
	if err := s.leaveRepo.DeleteForTenant(ctx, tenantID, leaveID); err != nil {
		return err
	}
	s.logger.Info("leave request deleted", zap.String("leave_request_id", leaveID.String()))
	return nil
}

func (s *LeaveRequestService) mutate(ctx context.Context, tenantID, leaveID uuid.UUID, msg string, fn func(*hr.LeaveRequest) error) (*LeaveRequestResponse, error) {
	leave, err := s.leaveRepo.FindByIDForTenant(ctx, tenantID, leaveID)
	if err != nil {
		return nil, err
	}
	version := leave.Version
	if err := fn(leave); err != nil {
		return nil, err
	}
	if leave.Version != version {
		if err := s.leaveRepo.Save(ctx, leave); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, leave)
		s.logger.Info(msg,
			zap.String("leave_request_id", leave.ID.String()),
			zap.String("status", string(leave.Status)),
		)
	}

	response := ToLeaveRequestResponse(leave)
	return &response, nil
}
