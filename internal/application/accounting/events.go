package accounting

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents hands the aggregate's pending events to the publisher.
// A publish failure is logged; the write it follows has already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregate shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, publisher, aggregate); err != nil {
		logger.Warn("failed to publish domain events",
			zap.String("aggregate_id", aggregate.GetID().String()),
			zap.Error(err),
		)
	}
}
