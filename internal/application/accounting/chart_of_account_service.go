package accounting

import (
	"context"

	"github.com/erp/lobapi/internal/domain/accounting"
	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrAccountCodeTaken is returned when an account code is already used in the tenant
var ErrAccountCodeTaken = shared.NewDomainError("ALREADY_EXISTS", "Account code must be unique")

// ChartOfAccountService handles ledger account operations
type ChartOfAccountService struct {
	accountRepo    accounting.ChartOfAccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewChartOfAccountService creates a new ChartOfAccountService
func NewChartOfAccountService(accountRepo accounting.ChartOfAccountRepository, logger *zap.Logger) *ChartOfAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartOfAccountService{accountRepo: accountRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *ChartOfAccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a ledger account
func (s *ChartOfAccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateChartOfAccountRequest) (*ChartOfAccountResponse, error) {
	exists, err := s.accountRepo.ExistsByCode(ctx, tenantID, req.AccountCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountCodeTaken
	}

	account, err := accounting.NewChartOfAccount(tenantID, req.AccountCode, req.AccountName, req.AccountType, req.UsoaCategory, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, account)

	s.logger.Info("chart of account created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", account.ID.String()),
		zap.String("account_code", account.AccountCode),
	)
	response := ToChartOfAccountResponse(account)
	return &response, nil
}

// GetByID retrieves a ledger account
func (s *ChartOfAccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*ChartOfAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToChartOfAccountResponse(account)
	return &response, nil
}

// Search lists ledger accounts matching the request
func (s *ChartOfAccountService) Search(ctx context.Context, tenantID uuid.UUID, req SearchChartOfAccountsRequest) (shared.Paginated[ChartOfAccountResponse], error) {
	filter := req.ToFilter().
		With("account_type", req.AccountType).
		With("usoa_category", req.UsoaCategory).
		With("is_active", req.IsActive)

	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ChartOfAccountResponse]{}, err
	}
	total, err := s.accountRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ChartOfAccountResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(accounts, ToChartOfAccountResponse), total, filter.Page, filter.PageSize), nil
}

// Update applies the changed fields of a ledger account
func (s *ChartOfAccountService) Update(ctx context.Context, tenantID, accountID uuid.UUID, req UpdateChartOfAccountRequest) (*ChartOfAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	changed, err := account.Update(req.details())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, account)
		s.logger.Info("chart of account updated", zap.String("account_id", account.ID.String()))
	}
	response := ToChartOfAccountResponse(account)
	return &response, nil
}

// UpdateBalance sets the running balance of a ledger account
func (s *ChartOfAccountService) UpdateBalance(ctx context.Context, tenantID, accountID uuid.UUID, balance decimal.Decimal) (*ChartOfAccountResponse, error) {
	return s.mutate(ctx, tenantID, accountID, "chart of account balance updated", func(a *accounting.ChartOfAccount) {
		a.UpdateBalance(balance)
	})
}

// Activate enables a ledger account
func (s *ChartOfAccountService) Activate(ctx context.Context, tenantID, accountID uuid.UUID) (*ChartOfAccountResponse, error) {
	return s.mutate(ctx, tenantID, accountID, "chart of account activated", (*accounting.ChartOfAccount).Activate)
}

// Deactivate disables a ledger account
func (s *ChartOfAccountService) Deactivate(ctx context.Context, tenantID, accountID uuid.UUID) (*ChartOfAccountResponse, error) {
	return s.mutate(ctx, tenantID, accountID, "chart of account deactivated", (*accounting.ChartOfAccount).Deactivate)
}

// Delete deletes a ledger account with a zero balance
func (s *ChartOfAccountService) Delete(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if err := account.CanDelete(); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteForTenant(ctx, tenantID, accountID); err != nil {
		return err
	}
	s.logger.Info("chart of account deleted", zap.String("account_id", accountID.String()))
	return nil
}

// mutate applies fn and saves only when fn raised an event
func (s *ChartOfAccountService) mutate(ctx context.Context, tenantID, accountID uuid.UUID, msg string, fn func(*accounting.ChartOfAccount)) (*ChartOfAccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	fn(account)
	if len(account.GetDomainEvents()) > 0 {
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, account)
		s.logger.Info(msg, zap.String("account_id", account.ID.String()))
	}
	response := ToChartOfAccountResponse(account)
	return &response, nil
}
