package store

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo   store.SupplierRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo store.SupplierRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{supplierRepo: supplierRepo, logger: logger}
}

// SetEventPublisher sets the event publisher
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, req.Code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier code must be unique")
	}

	supplier, err := store.NewSupplier(tenantID, req.Code, req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if _, err := supplier.Update(store.SupplierDetails{
		ContactPerson:    &req.ContactPerson,
		Phone:            &req.Phone,
		Address:          &req.Address,
		City:             &req.City,
		State:            &req.State,
		Country:          &req.Country,
		PostalCode:       &req.PostalCode,
		Website:          &req.Website,
		CreditLimit:      req.CreditLimit,
		PaymentTermsDays: req.PaymentTermsDays,
		Notes:            &req.Notes,
	}); err != nil {
		return nil, err
	}
	supplier.ClearDomainEvents()
	supplier.AddDomainEvent(store.NewSupplierCreatedEvent(supplier))

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, supplier)

	s.logger.Info("supplier created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("code", supplier.Code),
	)
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Search lists suppliers matching the request
func (s *SupplierService) Search(ctx context.Context, tenantID uuid.UUID, req SearchSuppliersRequest) (shared.Paginated[SupplierResponse], error) {
	filter := req.ToFilter().
		With("is_active", req.IsActive).
		With("country", req.Country)
	if req.MinRating != nil {
		filter = filter.With("min_rating", *req.MinRating)
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(suppliers, ToSupplierResponse), total, filter.Page, filter.PageSize), nil
}

// Update applies the changed fields of a supplier
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if req.Code != nil && *req.Code != supplier.Code {
		exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, *req.Code, &supplier.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier code must be unique")
		}
	}

	changed, err := supplier.Update(store.SupplierDetails{
		Name:             req.Name,
		Code:             req.Code,
		ContactPerson:    req.ContactPerson,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		PostalCode:       req.PostalCode,
		Website:          req.Website,
		CreditLimit:      req.CreditLimit,
		PaymentTermsDays: req.PaymentTermsDays,
		Notes:            req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, supplier)
		s.logger.Info("supplier updated", zap.String("supplier_id", supplier.ID.String()))
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// UpdateRating sets the supplier rating
func (s *SupplierService) UpdateRating(ctx context.Context, tenantID, supplierID uuid.UUID, rating decimal.Decimal) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, "supplier rating updated", func(sp *store.Supplier) error {
		return sp.UpdateRating(rating)
	})
}

// Activate enables a supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, "supplier activated", (*store.Supplier).Activate)
}

// Deactivate disables a supplier
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	return s.mutate(ctx, tenantID, supplierID, "supplier deactivated", (*store.Supplier).Deactivate)
}

// Delete deletes a supplier
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	if err := s.supplierRepo.DeleteForTenant(ctx, tenantID, supplierID); err != nil {
		return err
	}
	s.logger.Info("supplier deleted", zap.String("supplier_id", supplierID.String()))
	return nil
}

func (s *SupplierService) mutate(ctx context.Context, tenantID, supplierID uuid.UUID, msg string, fn func(*store.Supplier) error) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	version := supplier.Version
	if err := fn(supplier); err != nil {
		return nil, err
	}
	if supplier.Version != version {
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, supplier)
		s.logger.Info(msg, zap.String("supplier_id", supplier.ID.String()))
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}
