package store

import (
	"context"
	"time"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SerialNumberService handles serial number operations
type SerialNumberService struct {
	serialRepo     store.SerialNumberRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewSerialNumberService creates a new SerialNumberService
func NewSerialNumberService(serialRepo store.SerialNumberRepository, logger *zap.Logger) *SerialNumberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SerialNumberService{serialRepo: serialRepo, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher
func (s *SerialNumberService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a serial number
func (s *SerialNumberService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSerialNumberRequest) (*SerialNumberResponse, error) {
	exists, err := s.serialRepo.ExistsBySerialValue(ctx, tenantID, req.SerialValue)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Serial number must be unique")
	}

	serial, err := store.NewSerialNumber(tenantID, req.SerialValue, req.ItemID, store.SerialNumberLocation{
		WarehouseID:         req.WarehouseID,
		WarehouseLocationID: req.WarehouseLocationID,
		BinID:               req.BinID,
		LotNumberID:         req.LotNumberID,
	})
	if err != nil {
		return nil, err
	}
	serial.SetDates(req.ReceiptDate, nil, req.WarrantyExpiration)
	serial.SetExternalReference(req.ExternalReference)
	serial.Notes = shared.TruncateString(req.Notes, store.MaxSerialNotesLength)

	if err := s.serialRepo.Save(ctx, serial); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, serial)

	s.logger.Info("serial number created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("serial_number_id", serial.ID.String()),
		zap.String("serial_value", serial.SerialValue),
	)
	response := ToSerialNumberResponse(serial, s.now())
	return &response, nil
}

// GetByID retrieves a serial number
func (s *SerialNumberService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SerialNumberResponse, error) {
	serial, err := s.serialRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSerialNumberResponse(serial, s.now())
	return &response, nil
}

// Search lists serial numbers matching the request
func (s *SerialNumberService) Search(ctx context.Context, tenantID uuid.UUID, req SearchSerialNumbersRequest) (shared.Paginated[SerialNumberResponse], error) {
	now := s.now()
	filter := req.ToFilter()
	if req.ItemID != nil {
		filter = filter.With("item_id", *req.ItemID)
	}
	if req.WarehouseID != nil {
		filter = filter.With("warehouse_id", *req.WarehouseID)
	}
	if req.Status != nil {
		status, err := store.ParseSerialNumberStatus(*req.Status)
		if err != nil {
			return shared.Paginated[SerialNumberResponse]{}, err
		}
		filter = filter.With("status", string(status))
	}
	if req.WarrantyValid != nil {
		filter = filter.With("warranty_valid_at", now).With("warranty_valid", req.WarrantyValid)
	}

	serials, err := s.serialRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[SerialNumberResponse]{}, err
	}
	total, err := s.serialRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[SerialNumberResponse]{}, err
	}
	items := mapSlice(serials, func(sn *store.SerialNumber) SerialNumberResponse {
		return ToSerialNumberResponse(sn, now)
	})
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update changes status, placement, dates and notes
func (s *SerialNumberService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSerialNumberRequest) (*SerialNumberResponse, error) {
	serial, err := s.serialRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var status *store.SerialNumberStatus
	if req.Status != nil {
		parsed, err := store.ParseSerialNumberStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}
	changed, err := serial.Update(status, store.SerialNumberLocation{
		WarehouseID:         req.WarehouseID,
		WarehouseLocationID: req.WarehouseLocationID,
		BinID:               req.BinID,
		LotNumberID:         req.LotNumberID,
	}, req.Notes)
	if err != nil {
		return nil, err
	}
	if req.ShipmentDate != nil || req.WarrantyExpiration != nil {
		serial.SetDates(nil, req.ShipmentDate, req.WarrantyExpiration)
		changed = true
	}

	if changed {
		if err := s.serialRepo.Save(ctx, serial); err != nil {
			return nil, err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, serial)
		s.logger.Info("serial number updated",
			zap.String("serial_number_id", serial.ID.String()),
			zap.String("status", string(serial.Status)),
		)
	}
	response := ToSerialNumberResponse(serial, s.now())
	return &response, nil
}

// AddNotes appends a note line
func (s *SerialNumberService) AddNotes(ctx context.Context, tenantID, id uuid.UUID, note string) (*SerialNumberResponse, error) {
	serial, err := s.serialRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := serial.AddNotes(note); err != nil {
		return nil, err
	}
	if err := s.serialRepo.Save(ctx, serial); err != nil {
		return nil, err
	}
	response := ToSerialNumberResponse(serial, s.now())
	return &response, nil
}

// Delete deletes a serial number
func (s *SerialNumberService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.serialRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("serial number deleted", zap.String("serial_number_id", id.String()))
	return nil
}
