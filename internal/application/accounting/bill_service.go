package accounting

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillService handles vendor bill operations
type BillService struct {
	billRepo       accounting.BillRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewBillService creates a new BillService
func NewBillService(billRepo accounting.BillRepository, logger *zap.Logger) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{billRepo: billRepo, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher
func (s *BillService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft bill with its lines
func (s *BillService) Create(ctx context.Context, tenantID uuid.UUID, req BillRequest) (*BillResponse, error) {
	if err := s.ensureUniqueNumber(ctx, tenantID, req.BillNumber, nil); err != nil {
		return nil, err
	}
	bill, err := accounting.NewBill(tenantID, req.header(), req.lines())
	if err != nil {
		return nil, err
	}
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, bill)

	s.logger.Info("bill created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("bill_id", bill.ID.String()),
		zap.String("bill_number", bill.BillNumber),
		zap.String("total", bill.TotalAmount.String()),
	)
	return s.respond(bill), nil
}

// GetByID retrieves a bill with its lines
func (s *BillService) GetByID(ctx context.Context, tenantID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	return s.respond(bill), nil
}

// Search lists bills matching the request. Lines are not loaded.
func (s *BillService) Search(ctx context.Context, tenantID uuid.UUID, req SearchBillsRequest) (shared.Paginated[BillResponse], error) {
	now := s.now()
	filter := req.ToFilter().
		With("status", req.Status).
		With("approval_status", req.ApprovalStatus).
		With("bill_date_from", req.BillDateFrom).
		With("bill_date_to", req.BillDateTo).
		With("due_date_from", req.DueDateFrom).
		With("due_date_to", req.DueDateTo)
	if req.VendorID != nil {
		filter = filter.With("vendor_id", *req.VendorID)
	}
	if req.OverdueOnly {
		filter = filter.With("overdue_at", now)
	}

	bills, err := s.billRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BillResponse]{}, err
	}
	total, err := s.billRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BillResponse]{}, err
	}
	items := mapSlice(bills, func(b *accounting.Bill) BillResponse { return ToBillResponse(b, now) })
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update replaces the header of a bill and, when lines are sent, its lines
func (s *BillService) Update(ctx context.Context, tenantID, billID uuid.UUID, req BillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	if req.BillNumber != "" && req.BillNumber != bill.BillNumber {
		if err := s.ensureUniqueNumber(ctx, tenantID, req.BillNumber, &bill.ID); err != nil {
			return nil, err
		}
	}
	version := bill.Version
	if err := bill.Update(req.header(), req.lines()); err != nil {
		return nil, err
	}
	if bill.Version != version {
		if err := s.billRepo.Save(ctx, bill); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, bill)
		s.logger.Info("bill updated", zap.String("bill_id", bill.ID.String()))
	}
	return s.respond(bill), nil
}

// Approve approves a bill
func (s *BillService) Approve(ctx context.Context, tenantID, billID uuid.UUID, req ApproveBillRequest) (*BillResponse, error) {
	return s.mutate(ctx, tenantID, billID, "bill approved", func(b *accounting.Bill) error {
		return b.Approve(req.ApprovedBy)
	})
}

// Reject rejects a bill
func (s *BillService) Reject(ctx context.Context, tenantID, billID uuid.UUID, req RejectBillRequest) (*BillResponse, error) {
	return s.mutate(ctx, tenantID, billID, "bill rejected", func(b *accounting.Bill) error {
		return b.Reject(req.RejectedBy, req.Reason)
	})
}

// Post posts an approved bill
func (s *BillService) Post(ctx context.Context, tenantID, billID uuid.UUID) (*BillResponse, error) {
	return s.mutate(ctx, tenantID, billID, "bill posted", (*accounting.Bill).Post)
}

// MarkAsPaid settles a posted bill
func (s *BillService) MarkAsPaid(ctx context.Context, tenantID, billID uuid.UUID, req PayBillRequest) (*BillResponse, error) {
	return s.mutate(ctx, tenantID, billID, "bill paid", func(b *accounting.Bill) error {
		paidDate := s.now()
		if req.PaidDate != nil {
			paidDate = *req.PaidDate
		}
		return b.MarkAsPaid(paidDate)
	})
}

// Void cancels an unpaid bill
func (s *BillService) Void(ctx context.Context, tenantID, billID uuid.UUID, req VoidBillRequest) (*BillResponse, error) {
	return s.mutate(ctx, tenantID, billID, "bill voided", func(b *accounting.Bill) error {
		return b.Void(req.Reason)
	})
}

// Delete deletes a draft bill and its lines
func (s *BillService) Delete(ctx context.Context, tenantID, billID uuid.UUID) error {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return err
	}
	if err := bill.CanDelete(); err != nil {
		return err
	}
	if err := s.billRepo.DeleteForTenant(ctx, tenantID, billID); err != nil {
		return err
	}
	s.logger.Info("bill deleted", zap.String("bill_id", billID.String()))
	return nil
}

func (s *BillService) ensureUniqueNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID *uuid.UUID) error {
	exists, err := s.billRepo.ExistsByNumber(ctx, tenantID, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Bill number must be unique")
	}
	return nil
}

func (s *BillService) mutate(ctx context.Context, tenantID, billID uuid.UUID, msg string, fn func(*accounting.Bill) error) (*BillResponse, error) {
	bill, err := s.billRepo.FindByIDForTenant(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	version := bill.Version
	if err := fn(bill); err != nil {
		return nil, err
	}
	if bill.Version != version {
		if err := s.billRepo.Save(ctx, bill); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, bill)
		s.logger.Info(msg,
			zap.String("bill_id", bill.ID.String()),
			zap.String("status", string(bill.Status)),
		)
	}

	return s.respond(bill), nil
}

func (s *BillService) respond(b *accounting.Bill) *BillResponse {
	response := ToBillResponse(b, s.now())
	return &response
}
