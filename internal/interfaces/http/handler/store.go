package handler

import (
	storeapp "github.com/erp/lobapi/internal/application/store"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler serves /store/warehouses
type WarehouseHandler struct {
	BaseHandler
	service *storeapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(service *storeapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{service: service}
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a warehouse
// @Description  The first warehouse of a tenant becomes its main warehouse
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        request body     storeapp.CreateWarehouseRequest true "Warehouse"
// @Success      201     {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req storeapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetByID godoc
// @ID           getWarehouse
// @Summary      Get a warehouse
// @Tags         store
// @Param        id  path     string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, warehouse, err)
}

// GetMain godoc
// @ID           getMainWarehouse
// @Summary      Get the tenant's main warehouse
// @Tags         store
// @Success      200 {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/main [get]
func (h *WarehouseHandler) GetMain(c *gin.Context) {
	warehouse, err := h.service.GetMain(c.Request.Context(), getTenantID(c))
	respond(&h.BaseHandler, c, warehouse, err)
}

// Search godoc
// @ID           searchWarehouses
// @Summary      Search warehouses
// @Tags         store
// @Param        request body     storeapp.SearchWarehousesRequest false "Filter"
// @Success      200     {object} ListResponse[storeapp.WarehouseResponse]
// @Security     BearerAuth
// @Router       /store/warehouses/search [post]
func (h *WarehouseHandler) Search(c *gin.Context) {
	var req storeapp.SearchWarehousesRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Tags         store
// @Param        id      path     string                          true "Warehouse ID" format(uuid)
// @Param        request body     storeapp.UpdateWarehouseRequest true "Changes"
// @Success      200     {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, warehouse, err)
}

// UpdateCapacity godoc
// @ID           updateWarehouseCapacity
// @Summary      Record a warehouse's used capacity
// @Tags         store
// @Param        id      path     string                         true "Warehouse ID" format(uuid)
// @Param        request body     storeapp.UpdateCapacityRequest true "Used capacity"
// @Success      200     {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/{id}/capacity [post]
func (h *WarehouseHandler) UpdateCapacity(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.UpdateCapacityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	warehouse, err := h.service.UpdateCapacity(c.Request.Context(), getTenantID(c), id, req.UsedCapacity)
	respond(&h.BaseHandler, c, warehouse, err)
}

// Activate godoc
// @ID           activateWarehouse
// @Summary      Activate a warehouse
// @Tags         store
// @Param        id  path     string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.WarehouseResponse]
// @Security     BearerAuth
// @Router       /store/warehouses/{id}/activate [post]
func (h *WarehouseHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.service.Activate(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, warehouse, err)
}

// Deactivate godoc
// @ID           deactivateWarehouse
// @Summary      Deactivate a warehouse
// @Description  The main warehouse cannot be deactivated
// @Tags         store
// @Param        id  path     string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/{id}/deactivate [post]
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.service.Deactivate(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, warehouse, err)
}

// SetAsMain godoc
// @ID           setMainWarehouse
// @Summary      Make a warehouse the tenant's main warehouse
// @Tags         store
// @Param        id  path     string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.WarehouseResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/{id}/set-main [post]
func (h *WarehouseHandler) SetAsMain(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.service.SetAsMain(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, warehouse, err)
}

// Delete godoc
// @ID           deleteWarehouse
// @Summary      Delete a warehouse
// @Tags         store
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SupplierHandler serves /store/suppliers
type SupplierHandler struct {
	BaseHandler
	service *storeapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(service *storeapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Tags         store
// @Param        request body     storeapp.CreateSupplierRequest true "Supplier"
// @Success      201     {object} APIResponse[storeapp.SupplierResponse]
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req storeapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetByID godoc
// @ID           getSupplier
// @Summary      Get a supplier
// @Tags         store
// @Param        id  path     string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /store/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, supplier, err)
}

// Search godoc
// @ID           searchSuppliers
// @Summary      Search suppliers
// @Tags         store
// @Param        request body     storeapp.SearchSuppliersRequest false "Filter"
// @Success      200     {object} ListResponse[storeapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /store/suppliers/search [post]
func (h *SupplierHandler) Search(c *gin.Context) {
	var req storeapp.SearchSuppliersRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Update a supplier
// @Tags         store
// @Param        id      path     string                         true "Supplier ID" format(uuid)
// @Param        request body     storeapp.UpdateSupplierRequest true "Changes"
// @Success      200     {object} APIResponse[storeapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /store/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, supplier, err)
}

// UpdateRating godoc
// @ID           rateSupplier
// @Summary      Rate a supplier from 0 to 5
// @Tags         store
// @Param        id      path     string                       true "Supplier ID" format(uuid)
// @Param        request body     storeapp.UpdateRatingRequest true "Rating"
// @Success      200     {object} APIResponse[storeapp.SupplierResponse]
// @Failure      400     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/suppliers/{id}/rating [post]
func (h *SupplierHandler) UpdateRating(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.UpdateRatingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.service.UpdateRating(c.Request.Context(), getTenantID(c), id, req.Rating)
	respond(&h.BaseHandler, c, supplier, err)
}

// Activate godoc
// @ID           activateSupplier
// @Summary      Activate a supplier
// @Tags         store
// @Param        id  path     string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /store/suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.service.Activate(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, supplier, err)
}

// Deactivate godoc
// @ID           deactivateSupplier
// @Summary      Deactivate a supplier
// @Tags         store
// @Param        id  path     string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.SupplierResponse]
// @Security     BearerAuth
// @Router       /store/suppliers/{id}/deactivate [post]
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.service.Deactivate(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, supplier, err)
}

// Delete godoc
// @ID           deleteSupplier
// @Summary      Delete a supplier
// @Tags         store
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /store/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SerialNumberHandler serves /store/serial-numbers
type SerialNumberHandler struct {
	BaseHandler
	service *storeapp.SerialNumberService
}

// NewSerialNumberHandler creates a new SerialNumberHandler
func NewSerialNumberHandler(service *storeapp.SerialNumberService) *SerialNumberHandler {
	return &SerialNumberHandler{service: service}
}

// Create godoc
// @ID           createSerialNumber
// @Summary      Register a serial number
// @Tags         store
// @Param        request body     storeapp.CreateSerialNumberRequest true "Serial number"
// @Success      201     {object} APIResponse[storeapp.SerialNumberResponse]
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/serial-numbers [post]
func (h *SerialNumberHandler) Create(c *gin.Context) {
	var req storeapp.CreateSerialNumberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	serial, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, serial)
}

// GetByID godoc
// @ID           getSerialNumber
// @Summary      Get a serial number
// @Tags         store
// @Param        id  path     string true "Serial number ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.SerialNumberResponse]
// @Security     BearerAuth
// @Router       /store/serial-numbers/{id} [get]
func (h *SerialNumberHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	serial, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, serial, err)
}

// Search godoc
// @ID           searchSerialNumbers
// @Summary      Search serial numbers
// @Tags         store
// @Param        request body     storeapp.SearchSerialNumbersRequest false "Filter"
// @Success      200     {object} ListResponse[storeapp.SerialNumberResponse]
// @Security     BearerAuth
// @Router       /store/serial-numbers/search [post]
func (h *SerialNumberHandler) Search(c *gin.Context) {
	var req storeapp.SearchSerialNumbersRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateSerialNumber
// @Summary      Update a serial number's status or location
// @Tags         store
// @Param        id      path     string                             true "Serial number ID" format(uuid)
// @Param        request body     storeapp.UpdateSerialNumberRequest true "Changes"
// @Success      200     {object} APIResponse[storeapp.SerialNumberResponse]
// @Security     BearerAuth
// @Router       /store/serial-numbers/{id} [put]
func (h *SerialNumberHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.UpdateSerialNumberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	serial, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, serial, err)
}

// AddNotes godoc
// @ID           addSerialNumberNotes
// @Summary      Append a note to a serial number
// @Tags         store
// @Param        id      path     string                  true "Serial number ID" format(uuid)
// @Param        request body     storeapp.AddNotesRequest true "Note"
// @Success      200     {object} APIResponse[storeapp.SerialNumberResponse]
// @Security     BearerAuth
// @Router       /store/serial-numbers/{id}/notes [post]
func (h *SerialNumberHandler) AddNotes(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.AddNotesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	serial, err := h.service.AddNotes(c.Request.Context(), getTenantID(c), id, req.Note)
	respond(&h.BaseHandler, c, serial, err)
}

// Delete godoc
// @ID           deleteSerialNumber
// @Summary      Delete a serial number
// @Tags         store
// @Param        id path string true "Serial number ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /store/serial-numbers/{id} [delete]
func (h *SerialNumberHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// StockAdjustmentHandler serves /store/stock-adjustments
type StockAdjustmentHandler struct {
	BaseHandler
	service *storeapp.StockAdjustmentService
}

// NewStockAdjustmentHandler creates a new StockAdjustmentHandler
func NewStockAdjustmentHandler(service *storeapp.StockAdjustmentService) *StockAdjustmentHandler {
	return &StockAdjustmentHandler{service: service}
}

// Create godoc
// @ID           createStockAdjustment
// @Summary      Record a stock adjustment
// @Tags         store
// @Param        request body     storeapp.StockAdjustmentRequest true "Adjustment"
// @Success      201     {object} APIResponse[storeapp.StockAdjustmentResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/stock-adjustments [post]
func (h *StockAdjustmentHandler) Create(c *gin.Context) {
	var req storeapp.StockAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	adjustment, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, adjustment)
}

// GetByID godoc
// @ID           getStockAdjustment
// @Summary      Get a stock adjustment
// @Tags         store
// @Param        id  path     string true "Adjustment ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.StockAdjustmentResponse]
// @Security     BearerAuth
// @Router       /store/stock-adjustments/{id} [get]
func (h *StockAdjustmentHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	adjustment, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, adjustment, err)
}

// Search godoc
// @ID           searchStockAdjustments
// @Summary      Search stock adjustments
// @Tags         store
// @Param        request body     storeapp.SearchStockAdjustmentsRequest false "Filter"
// @Success      200     {object} ListResponse[storeapp.StockAdjustmentResponse]
// @Security     BearerAuth
// @Router       /store/stock-adjustments/search [post]
func (h *StockAdjustmentHandler) Search(c *gin.Context) {
	var req storeapp.SearchStockAdjustmentsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateStockAdjustment
// @Summary      Update an unapproved stock adjustment
// @Tags         store
// @Param        id      path     string                          true "Adjustment ID" format(uuid)
// @Param        request body     storeapp.StockAdjustmentRequest true "Adjustment"
// @Success      200     {object} APIResponse[storeapp.StockAdjustmentResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/stock-adjustments/{id} [put]
func (h *StockAdjustmentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.StockAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	adjustment, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, adjustment, err)
}

// Approve godoc
// @ID           approveStockAdjustment
// @Summary      Approve a stock adjustment
// @Tags         store
// @Param        id      path     string                            true "Adjustment ID" format(uuid)
// @Param        request body     storeapp.ApproveAdjustmentRequest true "Approver"
// @Success      200     {object} APIResponse[storeapp.StockAdjustmentResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /store/stock-adjustments/{id}/approve [post]
func (h *StockAdjustmentHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req storeapp.ApproveAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	adjustment, err := h.service.Approve(c.Request.Context(), getTenantID(c), id, req.ApprovedBy)
	respond(&h.BaseHandler, c, adjustment, err)
}

// Delete godoc
// @ID           deleteStockAdjustment
// @Summary      Delete an unapproved stock adjustment
// @Tags         store
// @Param        id path string true "Adjustment ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /store/stock-adjustments/{id} [delete]
func (h *StockAdjustmentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
