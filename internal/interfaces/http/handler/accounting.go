package handler

import (
	accountingapp "github.com/erp/lobapi/internal/application/accounting"
	"github.com/gin-gonic/gin"
)

// ChartOfAccountHandler serves /accounting/accounts
type ChartOfAccountHandler struct {
	BaseHandler
	service *accountingapp.ChartOfAccountService
}

// NewChartOfAccountHandler creates a new ChartOfAccountHandler
func NewChartOfAccountHandler(service *accountingapp.ChartOfAccountService) *ChartOfAccountHandler {
	return &ChartOfAccountHandler{service: service}
}

// Create godoc
// @ID           createChartOfAccount
// @Summary      Create a ledger account
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body     accountingapp.CreateChartOfAccountRequest true "Account"
// @Success      201     {object} APIResponse[accountingapp.ChartOfAccountResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts [post]
func (h *ChartOfAccountHandler) Create(c *gin.Context) {
	var req accountingapp.CreateChartOfAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// GetByID godoc
// @ID           getChartOfAccount
// @Summary      Get a ledger account
// @Tags         accounting
// @Produce      json
// @Param        id  path     string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.ChartOfAccountResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [get]
func (h *ChartOfAccountHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, account, err)
}

// Search godoc
// @ID           searchChartOfAccounts
// @Summary      Search ledger accounts
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        request body     accountingapp.SearchChartOfAccountsRequest false "Filter"
// @Success      200     {object} ListResponse[accountingapp.ChartOfAccountResponse]
// @Security     BearerAuth
// @Router       /accounting/accounts/search [post]
func (h *ChartOfAccountHandler) Search(c *gin.Context) {
	var req accountingapp.SearchChartOfAccountsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateChartOfAccount
// @Summary      Update a ledger account
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        id      path     string                                     true "Account ID" format(uuid)
// @Param        request body     accountingapp.UpdateChartOfAccountRequest true "Changes"
// @Success      200     {object} APIResponse[accountingapp.ChartOfAccountResponse]
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [put]
func (h *ChartOfAccountHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.UpdateChartOfAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, account, err)
}

// UpdateBalance godoc
// @ID           updateChartOfAccountBalance
// @Summary      Set a ledger account's balance
// @Tags         accounting
// @Param        id      path     string                              true "Account ID" format(uuid)
// @Param        request body     accountingapp.UpdateBalanceRequest true "Balance"
// @Success      200     {object} APIResponse[accountingapp.ChartOfAccountResponse]
// @Security     BearerAuth
// @Router       /accounting/accounts/{id}/balance [post]
func (h *ChartOfAccountHandler) UpdateBalance(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.UpdateBalanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.service.UpdateBalance(c.Request.Context(), getTenantID(c), id, req.Balance)
	respond(&h.BaseHandler, c, account, err)
}

// Activate godoc
// @ID           activateChartOfAccount
// @Summary      Activate a ledger account
// @Tags         accounting
// @Param        id  path     string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.ChartOfAccountResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts/{id}/activate [post]
func (h *ChartOfAccountHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.service.Activate(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, account, err)
}

// Deactivate godoc
// @ID           deactivateChartOfAccount
// @Summary      Deactivate a ledger account
// @Tags         accounting
// @Param        id  path     string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.ChartOfAccountResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts/{id}/deactivate [post]
func (h *ChartOfAccountHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.service.Deactivate(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, account, err)
}

// Delete godoc
// @ID           deleteChartOfAccount
// @Summary      Delete a ledger account
// @Description  Accounts with a non-zero balance cannot be deleted
// @Tags         accounting
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/accounts/{id} [delete]
func (h *ChartOfAccountHandler) Delete(c *gin.Context) {
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

// AccountingPeriodHandler serves /accounting/periods
type AccountingPeriodHandler struct {
	BaseHandler
	service *accountingapp.AccountingPeriodService
}

// NewAccountingPeriodHandler creates a new AccountingPeriodHandler
func NewAccountingPeriodHandler(service *accountingapp.AccountingPeriodService) *AccountingPeriodHandler {
	return &AccountingPeriodHandler{service: service}
}

// Create godoc
// @ID           createAccountingPeriod
// @Summary      Open an accounting period
// @Tags         accounting
// @Param        request body     accountingapp.CreateAccountingPeriodRequest true "Period"
// @Success      201     {object} APIResponse[accountingapp.AccountingPeriodResponse]
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/periods [post]
func (h *AccountingPeriodHandler) Create(c *gin.Context) {
	var req accountingapp.CreateAccountingPeriodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	period, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, period)
}

// GetByID godoc
// @ID           getAccountingPeriod
// @Summary      Get an accounting period
// @Tags         accounting
// @Param        id  path     string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.AccountingPeriodResponse]
// @Security     BearerAuth
// @Router       /accounting/periods/{id} [get]
func (h *AccountingPeriodHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	period, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, period, err)
}

// Search godoc
// @ID           searchAccountingPeriods
// @Summary      Search accounting periods
// @Tags         accounting
// @Param        request body     accountingapp.SearchAccountingPeriodsRequest false "Filter"
// @Success      200     {object} ListResponse[accountingapp.AccountingPeriodResponse]
// @Security     BearerAuth
// @Router       /accounting/periods/search [post]
func (h *AccountingPeriodHandler) Search(c *gin.Context) {
	var req accountingapp.SearchAccountingPeriodsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateAccountingPeriod
// @Summary      Update an open accounting period
// @Tags         accounting
// @Param        id      path     string                                       true "Period ID" format(uuid)
// @Param        request body     accountingapp.UpdateAccountingPeriodRequest true "Changes"
// @Success      200     {object} APIResponse[accountingapp.AccountingPeriodResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/periods/{id} [put]
func (h *AccountingPeriodHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.UpdateAccountingPeriodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	period, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, period, err)
}

// Close godoc
// @ID           closeAccountingPeriod
// @Summary      Close an accounting period
// @Tags         accounting
// @Param        id      path     string                            true  "Period ID" format(uuid)
// @Param        request body     accountingapp.ClosePeriodRequest false "Closing date and user"
// @Success      200     {object} APIResponse[accountingapp.AccountingPeriodResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/periods/{id}/close [post]
func (h *AccountingPeriodHandler) Close(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.ClosePeriodRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	period, err := h.service.Close(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, period, err)
}

// Reopen godoc
// @ID           reopenAccountingPeriod
// @Summary      Reopen a closed accounting period
// @Tags         accounting
// @Param        id  path     string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.AccountingPeriodResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/periods/{id}/reopen [post]
func (h *AccountingPeriodHandler) Reopen(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	period, err := h.service.Reopen(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, period, err)
}

// Delete godoc
// @ID           deleteAccountingPeriod
// @Summary      Delete an open accounting period
// @Tags         accounting
// @Param        id path string true "Period ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /accounting/periods/{id} [delete]
func (h *AccountingPeriodHandler) Delete(c *gin.Context) {
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

// BillHandler serves /accounting/bills
type BillHandler struct {
	BaseHandler
	service *accountingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(service *accountingapp.BillService) *BillHandler {
	return &BillHandler{service: service}
}

// Create godoc
// @ID           createBill
// @Summary      Create a vendor bill with its lines
// @Tags         accounting
// @Param        request body     accountingapp.BillRequest true "Bill"
// @Success      201     {object} APIResponse[accountingapp.BillResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req accountingapp.BillRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bill, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// GetByID godoc
// @ID           getBill
// @Summary      Get a bill with its lines
// @Tags         accounting
// @Param        id  path     string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.BillResponse]
// @Security     BearerAuth
// @Router       /accounting/bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	bill, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, bill, err)
}

// Search godoc
// @ID           searchBills
// @Summary      Search bills
// @Tags         accounting
// @Param        request body     accountingapp.SearchBillsRequest false "Filter"
// @Success      200     {object} ListResponse[accountingapp.BillResponse]
// @Security     BearerAuth
// @Router       /accounting/bills/search [post]
func (h *BillHandler) Search(c *gin.Context) {
	var req accountingapp.SearchBillsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateBill
// @Summary      Replace a bill's header and lines
// @Tags         accounting
// @Param        id      path     string                     true "Bill ID" format(uuid)
// @Param        request body     accountingapp.BillRequest true "Bill"
// @Success      200     {object} APIResponse[accountingapp.BillResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/bills/{id} [put]
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.BillRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bill, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, bill, err)
}

// Approve godoc
// @ID           approveBill
// @Summary      Approve a bill
// @Tags         accounting
// @Param        id      path     string                            true "Bill ID" format(uuid)
// @Param        request body     accountingapp.ApproveBillRequest true "Approver"
// @Success      200     {object} APIResponse[accountingapp.BillResponse]
// @Security     BearerAuth
// @Router       /accounting/bills/{id}/approve [post]
func (h *BillHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.ApproveBillRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bill, err := h.service.Approve(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, bill, err)
}

// Reject godoc
// @ID           rejectBill
// @Summary      Reject a bill
// @Tags         accounting
// @Param        id      path     string                           true "Bill ID" format(uuid)
// @Param        request body     accountingapp.RejectBillRequest true "Rejection"
// @Success      200     {object} APIResponse[accountingapp.BillResponse]
// @Security     BearerAuth
// @Router       /accounting/bills/{id}/reject [post]
func (h *BillHandler) Reject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.RejectBillRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bill, err := h.service.Reject(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, bill, err)
}

// Post godoc
// @ID           postBill
// @Summary      Post an approved bill
// @Tags         accounting
// @Param        id  path     string true "Bill ID" format(uuid)
// @Success      200 {object} APIResponse[accountingapp.BillResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /accounting/bills/{id}/post [post]
func (h *BillHandler) Post(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	bill, err := h.service.Post(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, bill, err)
}

// MarkAsPaid godoc
// @ID           payBill
// @Summary      Mark a posted bill paid
// @Tags         accounting
// @Param        id      path     string                        true  "Bill ID" format(uuid)
// @Param        request body     accountingapp.PayBillRequest false "Paid date"
// @Success      200     {object} APIResponse[accountingapp.BillResponse]
// @Security     BearerAuth
// @Router       /accounting/bills/{id}/pay [post]
func (h *BillHandler) MarkAsPaid(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.PayBillRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	bill, err := h.service.MarkAsPaid(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, bill, err)
}

// Void godoc
// @ID           voidBill
// @Summary      Void an unpaid bill
// @Tags         accounting
// @Param        id      path     string                         true  "Bill ID" format(uuid)
// @Param        request body     accountingapp.VoidBillRequest false "Reason"
// @Success      200     {object} APIResponse[accountingapp.BillResponse]
// @Security     BearerAuth
// @Router       /accounting/bills/{id}/void [post]
func (h *BillHandler) Void(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req accountingapp.VoidBillRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	bill, err := h.service.Void(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, bill, err)
}

// Delete godoc
// @ID           deleteBill
// @Summary      Delete a draft bill
// @Tags         accounting
// @Param        id path string true "Bill ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /accounting/bills/{id} [delete]
func (h *BillHandler) Delete(c *gin.Context) {
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
