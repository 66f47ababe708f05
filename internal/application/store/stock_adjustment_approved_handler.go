package store

import (
	"context"
	"fmt"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustmentMetrics records approved stock adjustments
type AdjustmentMetrics interface {
	RecordStockAdjustmentApproved(ctx context.Context, tenantID uuid.UUID, adjustmentType string, costImpact decimal.Decimal)
}

// StockAdjustmentApprovedHandler logs approved adjustments and counts them
type StockAdjustmentApprovedHandler struct {
	logger  *zap.Logger
	metrics AdjustmentMetrics
}

// NewStockAdjustmentApprovedHandler creates the handler; metrics may be nil
func NewStockAdjustmentApprovedHandler(logger *zap.Logger, metrics AdjustmentMetrics) *StockAdjustmentApprovedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAdjustmentApprovedHandler{logger: logger, metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *StockAdjustmentApprovedHandler) EventTypes() []string {
	return []string{store.EventTypeStockAdjustmentApproved}
}

// Handle processes a StockAdjustmentApprovedEvent
func (h *StockAdjustmentApprovedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	approved, ok := event.(*store.StockAdjustmentApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			store.EventTypeStockAdjustmentApproved, event.EventType())
	}

	h.logger.Info("stock adjustment approved",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("adjustment_id", approved.AdjustmentID.String()),
		zap.String("adjustment_number", approved.AdjustmentNumber),
		zap.String("warehouse_id", approved.WarehouseID.String()),
		zap.String("item_id", approved.ItemID.String()),
		zap.Int("quantity_after", approved.QuantityAfter),
		zap.String("cost_impact", approved.TotalCostImpact.String()),
	)
	if h.metrics != nil {
		h.metrics.RecordStockAdjustmentApproved(ctx, event.TenantID(), string(approved.AdjustmentType), approved.TotalCostImpact)
	}
	return nil
}

var _ shared.EventHandler = (*StockAdjustmentApprovedHandler)(nil)
