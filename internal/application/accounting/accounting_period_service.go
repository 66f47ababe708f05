package accounting

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountingPeriodService handles accounting period operations
type AccountingPeriodService struct {
	periodRepo     accounting.AccountingPeriodRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAccountingPeriodService creates a new AccountingPeriodService
func NewAccountingPeriodService(periodRepo accounting.AccountingPeriodRepository, logger *zap.Logger) *AccountingPeriodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountingPeriodService{periodRepo: periodRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *AccountingPeriodService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new accounting period
func (s *AccountingPeriodService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountingPeriodRequest) (*AccountingPeriodResponse, error) {
	period, err := accounting.NewAccountingPeriod(tenantID, req.Name, req.StartDate, req.EndDate, req.FiscalYear, req.PeriodType)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, tenantID, period.FiscalYear, period.Name, nil); err != nil {
		return nil, err
	}
	if _, err := period.Update(accounting.AccountingPeriodDetails{
		IsAdjustmentPeriod: &req.IsAdjustmentPeriod,
		Description:        &req.Description,
		Notes:              &req.Notes,
	}); err != nil {
		return nil, err
	}
	period.ClearDomainEvents()
	period.AddDomainEvent(accounting.NewAccountingPeriodCreatedEvent(period))

	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, period)

	s.logger.Info("accounting period created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period_id", period.ID.String()),
		zap.Int("fiscal_year", period.FiscalYear),
	)
	response := ToAccountingPeriodResponse(period)
	return &response, nil
}

// GetByID retrieves an accounting period
func (s *AccountingPeriodService) GetByID(ctx context.Context, tenantID, periodID uuid.UUID) (*AccountingPeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	response := ToAccountingPeriodResponse(period)
	return &response, nil
}

// Search lists accounting periods matching the request
func (s *AccountingPeriodService) Search(ctx context.Context, tenantID uuid.UUID, req SearchAccountingPeriodsRequest) (shared.Paginated[AccountingPeriodResponse], error) {
	filter := req.ToFilter().
		With("fiscal_year", req.FiscalYear).
		With("period_type", req.PeriodType).
		With("is_closed", req.IsClosed).
		With("from", req.From).
		With("to", req.To)

	periods, err := s.periodRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[AccountingPeriodResponse]{}, err
	}
	total, err := s.periodRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[AccountingPeriodResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(periods, ToAccountingPeriodResponse), total, filter.Page, filter.PageSize), nil
}

// Update changes an open accounting period
func (s *AccountingPeriodService) Update(ctx context.Context, tenantID, periodID uuid.UUID, req UpdateAccountingPeriodRequest) (*AccountingPeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	changed, err := period.Update(accounting.AccountingPeriodDetails{
		Name:               req.Name,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		FiscalYear:         req.FiscalYear,
		PeriodType:         req.PeriodType,
		IsAdjustmentPeriod: req.IsAdjustmentPeriod,
		Description:        req.Description,
		Notes:              req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		response := ToAccountingPeriodResponse(period)
		return &response, nil
	}
	if req.Name != nil || req.FiscalYear != nil {
		if err := s.ensureUniqueName(ctx, tenantID, period.FiscalYear, period.Name, &period.ID); err != nil {
			return nil, err
		}
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, period)
	s.logger.Info("accounting period updated", zap.String("period_id", period.ID.String()))

	response := ToAccountingPeriodResponse(period)
	return &response, nil
}

// Close closes a period to further posting
func (s *AccountingPeriodService) Close(ctx context.Context, tenantID, periodID uuid.UUID, req ClosePeriodRequest) (*AccountingPeriodResponse, error) {
	return s.mutate(ctx, tenantID, periodID, "accounting period closed", func(p *accounting.AccountingPeriod) error {
		var closingDate time.Time
		if req.ClosingDate != nil {
			closingDate = *req.ClosingDate
		}
		return p.Close(closingDate, req.ClosedBy)
	})
}

// Reopen reopens a closed period
func (s *AccountingPeriodService) Reopen(ctx context.Context, tenantID, periodID uuid.UUID) (*AccountingPeriodResponse, error) {
	return s.mutate(ctx, tenantID, periodID, "accounting period reopened", (*accounting.AccountingPeriod).Reopen)
}

// Delete deletes an open accounting period
func (s *AccountingPeriodService) Delete(ctx context.Context, tenantID, periodID uuid.UUID) error {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, periodID)
	if err != nil {
		return err
	}
	if err := period.CanDelete(); err != nil {
		return err
	}
	if err := s.periodRepo.DeleteForTenant(ctx, tenantID, periodID); err != nil {
		return err
	}
	s.logger.Info("accounting period deleted", zap.String("period_id", periodID.String()))
	return nil
}

func (s *AccountingPeriodService) ensureUniqueName(ctx context.Context, tenantID uuid.UUID, fiscalYear int, name string, excludeID *uuid.UUID) error {
	exists, err := s.periodRepo.ExistsByName(ctx, tenantID, fiscalYear, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Accounting period name must be unique within the fiscal year")
	}
	return nil
}

func (s *AccountingPeriodService) mutate(ctx context.Context, tenantID, periodID uuid.UUID, msg string, fn func(*accounting.AccountingPeriod) error) (*AccountingPeriodResponse, error) {
	period, err := s.periodRepo.FindByIDForTenant(ctx, tenantID, periodID)
	if err != nil {
		return nil, err
	}
	version := period.Version
	if err := fn(period); err != nil {
		return nil, err
	}
	if period.Version != version {
		if err := s.periodRepo.Save(ctx, period); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, period)
		s.logger.Info(msg, zap.String("period_id", period.ID.String()))
	}

	response := ToAccountingPeriodResponse(period)
	return &response, nil
}
