package microfinance

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CollectionCaseService handles loan collection cases
type CollectionCaseService struct {
	caseRepo       microfinance.CollectionCaseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCollectionCaseService creates a new CollectionCaseService
func NewCollectionCaseService(caseRepo microfinance.CollectionCaseRepository, logger *zap.Logger) *CollectionCaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionCaseService{caseRepo: caseRepo, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher
func (s *CollectionCaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a collection case
func (s *CollectionCaseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCollectionCaseRequest) (*CollectionCaseResponse, error) {
	exists, err := s.caseRepo.ExistsByCaseNumber(ctx, tenantID, req.CaseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Case number must be unique")
	}

	c, err := microfinance.NewCollectionCase(tenantID, req.CaseNumber, req.LoanID, req.MemberID, req.DaysPastDue, req.AmountOverdue, req.TotalOutstanding)
	if err != nil {
		return nil, err
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, c)

	s.logger.Info("collection case opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("case_id", c.ID.String()),
		zap.String("priority", string(c.Priority)),
		zap.String("classification", string(c.Classification)),
	)
	response := ToCollectionCaseResponse(c)
	return &response, nil
}

// GetByID retrieves a collection case
func (s *CollectionCaseService) GetByID(ctx context.Context, tenantID, caseID uuid.UUID) (*CollectionCaseResponse, error) {
	c, err := s.caseRepo.FindByIDForTenant(ctx, tenantID, caseID)
	if err != nil {
		return nil, err
	}
	response := ToCollectionCaseResponse(c)
	return &response, nil
}

// Search lists collection cases matching the request
func (s *CollectionCaseService) Search(ctx context.Context, tenantID uuid.UUID, req SearchCollectionCasesRequest) (shared.Paginated[CollectionCaseResponse], error) {
	filter := req.ToFilter().
		With("status", req.Status).
		With("priority", req.Priority).
		With("classification", req.Classification)
	for key, id := range map[string]*uuid.UUID{
		"assigned_collector_id": req.AssignedCollectorID,
		"loan_id":               req.LoanID,
		"member_id":             req.MemberID,
	} {
		if id != nil {
			filter = filter.With(key, *id)
		}
	}

	cases, err := s.caseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CollectionCaseResponse]{}, err
	}
	total, err := s.caseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CollectionCaseResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(cases, ToCollectionCaseResponse), total, filter.Page, filter.PageSize), nil
}

// Assign hands a case to a collector
func (s *CollectionCaseService) Assign(ctx context.Context, tenantID, caseID uuid.UUID, req AssignCaseRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection case assigned", func(c *microfinance.CollectionCase) error {
		return c.Assign(req.CollectorID, req.NextFollowUpDate)
	})
}

// RecordContact logs a contact attempt
func (s *CollectionCaseService) RecordContact(ctx context.Context, tenantID, caseID uuid.UUID, req RecordContactRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection contact recorded", func(c *microfinance.CollectionCase) error {
		contactDate := s.now()
		if req.ContactDate != nil {
			contactDate = *req.ContactDate
		}
		return c.RecordContact(contactDate, req.NextFollowUpDate)
	})
}

// RecordPromiseToPay records a promise to pay
func (s *CollectionCaseService) RecordPromiseToPay(ctx context.Context, tenantID, caseID uuid.UUID, req PromiseToPayRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "promise to pay recorded", func(c *microfinance.CollectionCase) error {
		return c.RecordPromiseToPay(req.Amount, req.Date, s.now())
	})
}

// EscalateToLegal hands a case to legal
func (s *CollectionCaseService) EscalateToLegal(ctx context.Context, tenantID, caseID uuid.UUID, req CaseReasonRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection case escalated", func(c *microfinance.CollectionCase) error {
		return c.EscalateToLegal(req.Reason)
	})
}

// RecordRecovery applies a recovered amount
func (s *CollectionCaseService) RecordRecovery(ctx context.Context, tenantID, caseID uuid.UUID, req RecoveryRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection recovery recorded", func(c *microfinance.CollectionCase) error {
		return c.RecordRecovery(req.Amount)
	})
}

// Settle agrees a settlement
func (s *CollectionCaseService) Settle(ctx context.Context, tenantID, caseID uuid.UUID, req SettleCaseRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection case settled", func(c *microfinance.CollectionCase) error {
		return c.Settle(req.Amount, req.Terms)
	})
}

// WriteOff writes the case off
func (s *CollectionCaseService) WriteOff(ctx context.Context, tenantID, caseID uuid.UUID, req CaseReasonRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection case written off", func(c *microfinance.CollectionCase) error {
		return c.WriteOff(req.Reason)
	})
}

// Close closes the case
func (s *CollectionCaseService) Close(ctx context.Context, tenantID, caseID uuid.UUID, req CaseReasonRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection case closed", func(c *microfinance.CollectionCase) error {
		return c.Close(req.Reason)
	})
}

// UpdateArrears refreshes arrears and recomputes priority and classification
func (s *CollectionCaseService) UpdateArrears(ctx context.Context, tenantID, caseID uuid.UUID, req UpdateArrearsRequest) (*CollectionCaseResponse, error) {
	return s.mutate(ctx, tenantID, caseID, "collection case arrears updated", func(c *microfinance.CollectionCase) error {
		return c.UpdateArrears(req.DaysPastDue, req.AmountOverdue, req.TotalOutstanding)
	})
}

// Delete deletes a collection case
func (s *CollectionCaseService) Delete(ctx context.Context, tenantID, caseID uuid.UUID) error {
	if err := s.caseRepo.DeleteForTenant(ctx, tenantID, caseID); err != nil {
		return err
	}
	s.logger.Info("collection case deleted", zap.String("case_id", caseID.String()))
	return nil
}

func (s *CollectionCaseService) mutate(ctx context.Context, tenantID, caseID uuid.UUID, msg string, fn func(*microfinance.CollectionCase) error) (*CollectionCaseResponse, error) {
	c, err := s.caseRepo.FindByIDForTenant(ctx, tenantID, caseID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if len(c.GetDomainEvents()) > 0 {
		if err := s.caseRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, c)
		s.logger.Info(msg,
			zap.String("case_id", c.ID.String()),
			zap.String("status", string(c.Status)),
		)
	}
	response := ToCollectionCaseResponse(c)
	return &response, nil
}
