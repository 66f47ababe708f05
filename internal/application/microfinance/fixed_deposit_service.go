package microfinance

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/microfinance"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FixedDepositService handles fixed deposit operations
type FixedDepositService struct {
	depositRepo    microfinance.FixedDepositRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewFixedDepositService creates a new FixedDepositService
func NewFixedDepositService(depositRepo microfinance.FixedDepositRepository, logger *zap.Logger) *FixedDepositService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixedDepositService{depositRepo: depositRepo, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher
func (s *FixedDepositService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens an active fixed deposit
func (s *FixedDepositService) Create(ctx context.Context, tenantID uuid.UUID, req CreateFixedDepositRequest) (*FixedDepositResponse, error) {
	exists, err := s.depositRepo.ExistsByCertificateNumber(ctx, tenantID, req.CertificateNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Certificate number must be unique")
	}

	in := req.toInput()
	if in.DepositDate.IsZero() {
		in.DepositDate = s.now()
	}
	deposit, err := microfinance.NewFixedDeposit(tenantID, in)
	if err != nil {
		return nil, err
	}
	if err := s.depositRepo.Save(ctx, deposit); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, deposit)

	s.logger.Info("fixed deposit created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("deposit_id", deposit.ID.String()),
		zap.String("certificate_number", deposit.CertificateNumber),
		zap.String("principal", deposit.PrincipalAmount.String()),
	)
	response := ToFixedDepositResponse(deposit)
	return &response, nil
}

// GetByID retrieves a fixed deposit
func (s *FixedDepositService) GetByID(ctx context.Context, tenantID, depositID uuid.UUID) (*FixedDepositResponse, error) {
	deposit, err := s.depositRepo.FindByIDForTenant(ctx, tenantID, depositID)
	if err != nil {
		return nil, err
	}
	response := ToFixedDepositResponse(deposit)
	return &response, nil
}

// Search lists fixed deposits matching the request
func (s *FixedDepositService) Search(ctx context.Context, tenantID uuid.UUID, req SearchFixedDepositsRequest) (shared.Paginated[FixedDepositResponse], error) {
	filter := req.ToFilter().
		With("status", req.Status).
		With("maturity_from", req.MaturityFrom).
		With("maturity_to", req.MaturityTo)
	if req.MemberID != nil {
		filter = filter.With("member_id", *req.MemberID)
	}

	deposits, err := s.depositRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[FixedDepositResponse]{}, err
	}
	total, err := s.depositRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[FixedDepositResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(deposits, ToFixedDepositResponse), total, filter.Page, filter.PageSize), nil
}

// PostInterest credits earned interest
func (s *FixedDepositService) PostInterest(ctx context.Context, tenantID, depositID uuid.UUID, amount decimal.Decimal) (*FixedDepositResponse, error) {
	return s.mutate(ctx, tenantID, depositID, "fixed deposit interest posted", func(f *microfinance.FixedDeposit) error {
		return f.PostInterest(amount)
	})
}

// PayInterest pays out earned interest
func (s *FixedDepositService) PayInterest(ctx context.Context, tenantID, depositID uuid.UUID, amount decimal.Decimal) (*FixedDepositResponse, error) {
	return s.mutate(ctx, tenantID, depositID, "fixed deposit interest paid", func(f *microfinance.FixedDeposit) error {
		return f.PayInterest(amount)
	})
}

// Mature closes the term of a running deposit today
func (s *FixedDepositService) Mature(ctx context.Context, tenantID, depositID uuid.UUID) (*FixedDepositResponse, error) {
	return s.mutate(ctx, tenantID, depositID, "fixed deposit matured", func(f *microfinance.FixedDeposit) error {
		return f.Mature(s.now())
	})
}

// Renew starts a new term for a matured deposit
func (s *FixedDepositService) Renew(ctx context.Context, tenantID, depositID uuid.UUID, req RenewDepositRequest) (*FixedDepositResponse, error) {
	return s.mutate(ctx, tenantID, depositID, "fixed deposit renewed", func(f *microfinance.FixedDeposit) error {
		return f.Renew(req.TermMonths, req.InterestRate, s.now())
	})
}

// ClosePremature closes a running deposit before maturity
func (s *FixedDepositService) ClosePremature(ctx context.Context, tenantID, depositID uuid.UUID, req ClosePrematureRequest) (*FixedDepositResponse, error) {
	return s.mutate(ctx, tenantID, depositID, "fixed deposit closed prematurely", func(f *microfinance.FixedDeposit) error {
		return f.ClosePremature(req.Reason)
	})
}

// UpdateMaturityInstruction changes the instruction of an open deposit
func (s *FixedDepositService) UpdateMaturityInstruction(ctx context.Context, tenantID, depositID uuid.UUID, req UpdateMaturityInstructionRequest) (*FixedDepositResponse, error) {
	return s.mutate(ctx, tenantID, depositID, "fixed deposit maturity instruction updated", func(f *microfinance.FixedDeposit) error {
		return f.UpdateMaturityInstruction(req.MaturityInstruction)
	})
}

func (s *FixedDepositService) mutate(ctx context.Context, tenantID, depositID uuid.UUID, msg string, fn func(*microfinance.FixedDeposit) error) (*FixedDepositResponse, error) {
	deposit, err := s.depositRepo.FindByIDForTenant(ctx, tenantID, depositID)
	if err != nil {
		return nil, err
	}
	version := deposit.Version
	if err := fn(deposit); err != nil {
		return nil, err
	}
	if deposit.Version != version {
		if err := s.depositRepo.Save(ctx, deposit); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, deposit)
		s.logger.Info(msg,
			zap.String("deposit_id", deposit.ID.String()),
			zap.String("status", string(deposit.Status)),
		)
	}
	response := ToFixedDepositResponse(deposit)
	return &response, nil
}
