package store

import (
	"context"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrWarehouseCodeTaken is returned when a warehouse code is already used in the tenant
var ErrWarehouseCodeTaken = shared.NewDomainError("ALREADY_EXISTS", "Warehouse code must be unique")

// WarehouseService handles warehouse-related business operations
type WarehouseService struct {
	warehouseRepo  store.WarehouseRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo store.WarehouseRepository, logger *zap.Logger) *WarehouseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher
func (s *WarehouseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, tenantID, req.Code, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWarehouseCodeTaken
	}

	warehouseType, err := store.ParseWarehouseType(req.WarehouseType)
	if err != nil {
		return nil, err
	}
	warehouse, err := store.NewWarehouse(tenantID, req.Code, req.Name, warehouseType)
	if err != nil {
		return nil, err
	}

	if _, err := warehouse.Update(store.WarehouseDetails{
		Address:       &req.Address,
		ManagerName:   &req.ManagerName,
		ManagerEmail:  &req.ManagerEmail,
		ManagerPhone:  &req.ManagerPhone,
		TotalCapacity: req.TotalCapacity,
		CapacityUnit:  &req.CapacityUnit,
		Description:   &req.Description,
		Notes:         &req.Notes,
	}); err != nil {
		return nil, err
	}
	// The creation event already describes the new warehouse
	warehouse.ClearDomainEvents()
	warehouse.AddDomainEvent(store.NewWarehouseCreatedEvent(warehouse))

	save := s.warehouseRepo.Save
	if req.IsMainWarehouse {
		if err := warehouse.SetAsMain(); err != nil {
			return nil, err
		}
		save = s.warehouseRepo.SaveAsMain
	}
	if err := save(ctx, warehouse); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, warehouse)

	s.logger.Info("warehouse created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code),
	)
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetMain retrieves the main warehouse of a tenant
func (s *WarehouseService) GetMain(ctx context.Context, tenantID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindMain(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Search lists warehouses matching the request
func (s *WarehouseService) Search(ctx context.Context, tenantID uuid.UUID, req SearchWarehousesRequest) (shared.Paginated[WarehouseResponse], error) {
	filter := req.ToFilter().
		With("warehouse_type", req.WarehouseType).
		With("is_active", req.IsActive).
		With("is_main", req.IsMainWarehouse)

	warehouses, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[WarehouseResponse]{}, err
	}
	total, err := s.warehouseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[WarehouseResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(warehouses, ToWarehouseResponse), total, filter.Page, filter.PageSize), nil
}

// Update applies the changed fields of a warehouse
func (s *WarehouseService) Update(ctx context.Context, tenantID, warehouseID uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != warehouse.Code {
		exists, err := s.warehouseRepo.ExistsByCode(ctx, tenantID, *req.Code, &warehouse.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrWarehouseCodeTaken
		}
	}

	details := store.WarehouseDetails{
		Code:          req.Code,
		Name:          req.Name,
		Address:       req.Address,
		ManagerName:   req.ManagerName,
		ManagerEmail:  req.ManagerEmail,
		ManagerPhone:  req.ManagerPhone,
		TotalCapacity: req.TotalCapacity,
		CapacityUnit:  req.CapacityUnit,
		Description:   req.Description,
		Notes:         req.Notes,
	}
	if req.WarehouseType != nil {
		wt, err := store.ParseWarehouseType(*req.WarehouseType)
		if err != nil {
			return nil, err
		}
		details.WarehouseType = &wt
	}

	changed, err := warehouse.Update(details)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, warehouse)
		s.logger.Info("warehouse updated", zap.String("warehouse_id", warehouse.ID.String()))
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// UpdateCapacity sets the used capacity
func (s *WarehouseService) UpdateCapacity(ctx context.Context, tenantID, warehouseID uuid.UUID, used decimal.Decimal) (*WarehouseResponse, error) {
	return s.mutate(ctx, tenantID, warehouseID, "warehouse capacity updated", func(w *store.Warehouse) error {
		return w.UpdateCapacity(used)
	})
}

// Activate enables a warehouse
func (s *WarehouseService) Activate(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	return s.mutate(ctx, tenantID, warehouseID, "warehouse activated", (*store.Warehouse).Activate)
}

// Deactivate disables a warehouse
func (s *WarehouseService) Deactivate(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	return s.mutate(ctx, tenantID, warehouseID, "warehouse deactivated", (*store.Warehouse).Deactivate)
}

// SetAsMain makes the warehouse the tenant's main warehouse, clearing the previous one
func (s *WarehouseService) SetAsMain(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive {
		return nil, shared.NewInvalidStateError("An inactive warehouse cannot be the main warehouse")
	}
	if warehouse.IsMainWarehouse {
		response := ToWarehouseResponse(warehouse)
		return &response, nil
	}

	if err := warehouse.SetAsMain(); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.SaveAsMain(ctx, warehouse); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, warehouse)
	s.logger.Info("main warehouse changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("warehouse_id", warehouse.ID.String()),
	)

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Delete deletes a warehouse. The main warehouse cannot be deleted.
func (s *WarehouseService) Delete(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return err
	}
	if err := warehouse.CanDelete(); err != nil {
		return err
	}
	if err := s.warehouseRepo.DeleteForTenant(ctx, tenantID, warehouseID); err != nil {
		return err
	}
	s.logger.Info("warehouse deleted", zap.String("warehouse_id", warehouseID.String()))
	return nil
}

func (s *WarehouseService) mutate(ctx context.Context, tenantID, warehouseID uuid.UUID, msg string, fn func(*store.Warehouse) error) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	version := warehouse.Version
	if err := fn(warehouse); err != nil {
		return nil, err
	}
	if warehouse.Version != version {
		if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, warehouse)
		s.logger.Info(msg, zap.String("warehouse_id", warehouse.ID.String()))
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}
