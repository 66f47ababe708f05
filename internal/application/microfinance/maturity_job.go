package microfinance

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaturityBatchSize is the number of deposits loaded per batch
const DefaultMaturityBatchSize = 100

// MaturityMetrics records deposits matured per run
type MaturityMetrics interface {
	RecordDepositsMatured(ctx context.Context, count int)
}

// MaturityJob matures every running deposit whose maturity date has passed
type MaturityJob struct {
	depositRepo    microfinance.FixedDepositRepository
	eventPublisher shared.EventPublisher
	metrics        MaturityMetrics
	logger         *zap.Logger
	batchSize      int
	now            func() time.Time
}

// NewMaturityJob creates a MaturityJob; a non-positive batchSize uses the default
func NewMaturityJob(depositRepo microfinance.FixedDepositRepository, batchSize int, logger *zap.Logger) *MaturityJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = DefaultMaturityBatchSize
	}
	return &MaturityJob{depositRepo: depositRepo, logger: logger, batchSize: batchSize, now: time.Now}
}

// SetEventPublisher sets the event publisher
func (j *MaturityJob) SetEventPublisher(publisher shared.EventPublisher) {
	j.eventPublisher = publisher
}

// SetMetrics sets the run metrics recorder
func (j *MaturityJob) SetMetrics(metrics MaturityMetrics) {
	j.metrics = metrics
}

// Name identifies the job in scheduler logs and run records
func (j *MaturityJob) Name() string {
	return "fixed_deposit_maturity"
}

// Run matures deposits due as of now
func (j *MaturityJob) Run(ctx context.Context) error {
	matured, err := j.MatureDue(ctx, j.now())
	if j.metrics != nil {
		j.metrics.RecordDepositsMatured(ctx, matured)
	}
	return err
}

// MatureDue matures deposits due on or before asOf and returns how many matured.
// A deposit that fails to save is logged and skipped; the batch loop stops
// once a batch makes no progress so a persistent failure cannot spin.
func (j *MaturityJob) MatureDue(ctx context.Context, asOf time.Time) (int, error) {
	matured := 0
	for {
		if err := ctx.Err(); err != nil {
			return matured, err
		}
		deposits, err := j.depositRepo.FindDueForMaturity(ctx, asOf, j.batchSize)
		if err != nil {
			return matured, err
		}

		progressed := 0
		for i := range deposits {
			deposit := &deposits[i]
			if err := deposit.Mature(asOf); err != nil {
				j.logger.Warn("skipping deposit that cannot mature",
					zap.String("deposit_id", deposit.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if err := j.depositRepo.Save(ctx, deposit); err != nil {
				j.logger.Error("failed to save matured deposit",
					zap.String("deposit_id", deposit.ID.String()),
					zap.Error(err),
				)
				continue
			}
			publishEvents(ctx, j.eventPublisher, j.logger, deposit)
			progressed++
		}
		matured += progressed

		if len(deposits) < j.batchSize || progressed == 0 {
			break
		}
	}

	j.logger.Info("fixed deposit maturity run finished",
		zap.Time("as_of", asOf),
		zap.Int("matured", matured),
	)
	return matured, nil
}
