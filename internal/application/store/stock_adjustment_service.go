package store

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockAdjustmentService handles stock adjustment operations
type StockAdjustmentService struct {
	adjustmentRepo store.StockAdjustmentRepository
	warehouseRepo  store.WarehouseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockAdjustmentService creates a new StockAdjustmentService
func NewStockAdjustmentService(adjustmentRepo store.StockAdjustmentRepository, warehouseRepo store.WarehouseRepository, logger *zap.Logger) *StockAdjustmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAdjustmentService{
		adjustmentRepo: adjustmentRepo,
		warehouseRepo:  warehouseRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *StockAdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a new unapproved adjustment
func (s *StockAdjustmentService) Create(ctx context.Context, tenantID uuid.UUID, req StockAdjustmentRequest) (*StockAdjustmentResponse, error) {
	if _, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, err
	}
	exists, err := s.adjustmentRepo.ExistsByNumber(ctx, tenantID, req.AdjustmentNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Adjustment number must be unique")
	}

	adjustment, err := store.NewStockAdjustment(tenantID, req.AdjustmentNumber, req.WarehouseID, req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, adjustment)

	s.logger.Info("stock adjustment created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("adjustment_id", adjustment.ID.String()),
		zap.String("adjustment_number", adjustment.AdjustmentNumber),
		zap.Int("quantity_after", adjustment.QuantityAfter),
	)
	response := ToStockAdjustmentResponse(adjustment)
	return &response, nil
}

// GetByID retrieves a stock adjustment
func (s *StockAdjustmentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToStockAdjustmentResponse(adjustment)
	return &response, nil
}

// Search lists adjustments matching the request
func (s *StockAdjustmentService) Search(ctx context.Context, tenantID uuid.UUID, req SearchStockAdjustmentsRequest) (shared.Paginated[StockAdjustmentResponse], error) {
	filter := req.ToFilter().
		With("is_approved", req.IsApproved).
		With("from", req.From).
		With("to", req.To)
	if req.WarehouseID != nil {
		filter = filter.With("warehouse_id", *req.WarehouseID)
	}
	if req.ItemID != nil {
		filter = filter.With("item_id", *req.ItemID)
	}
	if req.AdjustmentType != nil {
		t, err := store.ParseAdjustmentType(*req.AdjustmentType)
		if err != nil {
			return shared.Paginated[StockAdjustmentResponse]{}, err
		}
		filter = filter.With("adjustment_type", string(t))
	}

	adjustments, err := s.adjustmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[StockAdjustmentResponse]{}, err
	}
	total, err := s.adjustmentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[StockAdjustmentResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(adjustments, ToStockAdjustmentResponse), total, filter.Page, filter.PageSize), nil
}

// Update replaces an unapproved adjustment's fields
func (s *StockAdjustmentService) Update(ctx context.Context, tenantID, id uuid.UUID, req StockAdjustmentRequest) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.WarehouseID != adjustment.WarehouseID {
		return nil, shared.NewInvalidInputError("warehouse of an adjustment cannot be changed")
	}
	changed, err := adjustment.Update(req.toInput())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, adjustment)
		s.logger.Info("stock adjustment updated", zap.String("adjustment_id", adjustment.ID.String()))
	}
	response := ToStockAdjustmentResponse(adjustment)
	return &response, nil
}

// Approve approves an adjustment; approving an approved adjustment returns it unchanged
func (s *StockAdjustmentService) Approve(ctx context.Context, tenantID, id uuid.UUID, approvedBy string) (*StockAdjustmentResponse, error) {
	adjustment, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if adjustment.IsApproved {
		response := ToStockAdjustmentResponse(adjustment)
		return &response, nil
	}
	if err := adjustment.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, adjustment)
	s.logger.Info("stock adjustment approved",
		zap.String("adjustment_id", adjustment.ID.String()),
		zap.String("approved_by", adjustment.ApprovedBy),
	)
	response := ToStockAdjustmentResponse(adjustment)
	return &response, nil
}

// Delete removes an unapproved adjustment
func (s *StockAdjustmentService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	adjustment, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := adjustment.CanDelete(); err != nil {
		return err
	}
	if err := s.adjustmentRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("stock adjustment deleted", zap.String("adjustment_id", id.String()))
	return nil
}
