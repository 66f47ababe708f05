package handler

import (
	"context"

	mfapp "github.com/erp/lobapi/internal/application/microfinance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FixedDepositHandler serves /microfinance/fixed-deposits
type FixedDepositHandler struct {
	BaseHandler
	service *mfapp.FixedDepositService
}

// NewFixedDepositHandler creates a new FixedDepositHandler
func NewFixedDepositHandler(service *mfapp.FixedDepositService) *FixedDepositHandler {
	return &FixedDepositHandler{service: service}
}

// Create godoc
// @ID           createFixedDeposit
// @Summary      Open a fixed deposit
// @Description  Maturity date and maturity amount are derived from the term and simple interest
// @Tags         microfinance
// @Accept       json
// @Produce      json
// @Param        request body     mfapp.CreateFixedDepositRequest true "Deposit"
// @Success      201     {object} APIResponse[mfapp.FixedDepositResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits [post]
func (h *FixedDepositHandler) Create(c *gin.Context) {
	var req mfapp.CreateFixedDepositRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deposit, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, deposit)
}

// GetByID godoc
// @ID           getFixedDeposit
// @Summary      Get a fixed deposit
// @Tags         microfinance
// @Param        id  path     string true "Deposit ID" format(uuid)
// @Success      200 {object} APIResponse[mfapp.FixedDepositResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id} [get]
func (h *FixedDepositHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	deposit, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, deposit, err)
}

// Search godoc
// @ID           searchFixedDeposits
// @Summary      Search fixed deposits
// @Tags         microfinance
// @Param        request body     mfapp.SearchFixedDepositsRequest false "Filter"
// @Success      200     {object} ListResponse[mfapp.FixedDepositResponse]
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/search [post]
func (h *FixedDepositHandler) Search(c *gin.Context) {
	var req mfapp.SearchFixedDepositsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// PostInterest godoc
// @ID           postFixedDepositInterest
// @Summary      Accrue interest on a deposit
// @Tags         microfinance
// @Param        id      path     string                      true "Deposit ID" format(uuid)
// @Param        request body     mfapp.InterestAmountRequest true "Amount"
// @Success      200     {object} APIResponse[mfapp.FixedDepositResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id}/post-interest [post]
func (h *FixedDepositHandler) PostInterest(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.InterestAmountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deposit, err := h.service.PostInterest(c.Request.Context(), getTenantID(c), id, req.Amount)
	respond(&h.BaseHandler, c, deposit, err)
}

// PayInterest godoc
// @ID           payFixedDepositInterest
// @Summary      Pay out accrued interest
// @Tags         microfinance
// @Param        id      path     string                      true "Deposit ID" format(uuid)
// @Param        request body     mfapp.InterestAmountRequest true "Amount"
// @Success      200     {object} APIResponse[mfapp.FixedDepositResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id}/pay-interest [post]
func (h *FixedDepositHandler) PayInterest(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.InterestAmountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deposit, err := h.service.PayInterest(c.Request.Context(), getTenantID(c), id, req.Amount)
	respond(&h.BaseHandler, c, deposit, err)
}

// Mature godoc
// @ID           matureFixedDeposit
// @Summary      Mature a deposit whose maturity date has passed
// @Tags         microfinance
// @Param        id  path     string true "Deposit ID" format(uuid)
// @Success      200 {object} APIResponse[mfapp.FixedDepositResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id}/mature [post]
func (h *FixedDepositHandler) Mature(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	deposit, err := h.service.Mature(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, deposit, err)
}

// Renew godoc
// @ID           renewFixedDeposit
// @Summary      Renew a matured deposit
// @Tags         microfinance
// @Param        id      path     string                    true  "Deposit ID" format(uuid)
// @Param        request body     mfapp.RenewDepositRequest false "New term and rate"
// @Success      200     {object} APIResponse[mfapp.FixedDepositResponse]
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id}/renew [post]
func (h *FixedDepositHandler) Renew(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.RenewDepositRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	deposit, err := h.service.Renew(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, deposit, err)
}

// ClosePremature godoc
// @ID           closeFixedDepositPremature
// @Summary      Close a deposit before maturity
// @Tags         microfinance
// @Param        id      path     string                      true  "Deposit ID" format(uuid)
// @Param        request body     mfapp.ClosePrematureRequest false "Reason"
// @Success      200     {object} APIResponse[mfapp.FixedDepositResponse]
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id}/close-premature [post]
func (h *FixedDepositHandler) ClosePremature(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.ClosePrematureRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	deposit, err := h.service.ClosePremature(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, deposit, err)
}

// UpdateMaturityInstruction godoc
// @ID           updateFixedDepositMaturityInstruction
// @Summary      Change what happens at maturity
// @Tags         microfinance
// @Param        id      path     string                                 true "Deposit ID" format(uuid)
// @Param        request body     mfapp.UpdateMaturityInstructionRequest true "Instruction"
// @Success      200     {object} APIResponse[mfapp.FixedDepositResponse]
// @Security     BearerAuth
// @Router       /microfinance/fixed-deposits/{id}/maturity-instruction [post]
func (h *FixedDepositHandler) UpdateMaturityInstruction(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.UpdateMaturityInstructionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	deposit, err := h.service.UpdateMaturityInstruction(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, deposit, err)
}

// CollectionCaseHandler serves /microfinance/collection-cases
type CollectionCaseHandler struct {
	BaseHandler
	service *mfapp.CollectionCaseService
}

// NewCollectionCaseHandler creates a new CollectionCaseHandler
func NewCollectionCaseHandler(service *mfapp.CollectionCaseService) *CollectionCaseHandler {
	return &CollectionCaseHandler{service: service}
}

// Create godoc
// @ID           createCollectionCase
// @Summary      Open a collection case for an overdue loan
// @Tags         microfinance
// @Param        request body     mfapp.CreateCollectionCaseRequest true "Case"
// @Success      201     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /microfinance/collection-cases [post]
func (h *CollectionCaseHandler) Create(c *gin.Context) {
	var req mfapp.CreateCollectionCaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cc, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cc)
}

// GetByID godoc
// @ID           getCollectionCase
// @Summary      Get a collection case
// @Tags         microfinance
// @Param        id  path     string true "Case ID" format(uuid)
// @Success      200 {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id} [get]
func (h *CollectionCaseHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	cc, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, cc, err)
}

// Search godoc
// @ID           searchCollectionCases
// @Summary      Search collection cases
// @Tags         microfinance
// @Param        request body     mfapp.SearchCollectionCasesRequest false "Filter"
// @Success      200     {object} ListResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/search [post]
func (h *CollectionCaseHandler) Search(c *gin.Context) {
	var req mfapp.SearchCollectionCasesRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Assign godoc
// @ID           assignCollectionCase
// @Summary      Assign a collector
// @Tags         microfinance
// @Param        id      path     string                  true "Case ID" format(uuid)
// @Param        request body     mfapp.AssignCaseRequest true "Collector"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/assign [post]
func (h *CollectionCaseHandler) Assign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.AssignCaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cc, err := h.service.Assign(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}

// RecordContact godoc
// @ID           recordCollectionContact
// @Summary      Log contact with the borrower
// @Tags         microfinance
// @Param        id      path     string                     true  "Case ID" format(uuid)
// @Param        request body     mfapp.RecordContactRequest false "Contact"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/contact [post]
func (h *CollectionCaseHandler) RecordContact(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.RecordContactRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	cc, err := h.service.RecordContact(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}

// RecordPromiseToPay godoc
// @ID           recordCollectionPromise
// @Summary      Record a promise to pay
// @Tags         microfinance
// @Param        id      path     string                    true "Case ID" format(uuid)
// @Param        request body     mfapp.PromiseToPayRequest true "Promise"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/promise [post]
func (h *CollectionCaseHandler) RecordPromiseToPay(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.PromiseToPayRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cc, err := h.service.RecordPromiseToPay(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}

// EscalateToLegal godoc
// @ID           escalateCollectionCase
// @Summary      Escalate a case to legal
// @Tags         microfinance
// @Param        id      path     string                  true  "Case ID" format(uuid)
// @Param        request body     mfapp.CaseReasonRequest false "Reason"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/escalate [post]
func (h *CollectionCaseHandler) EscalateToLegal(c *gin.Context) {
	h.withReason(c, h.service.EscalateToLegal)
}

// RecordRecovery godoc
// @ID           recordCollectionRecovery
// @Summary      Record a recovered amount
// @Tags         microfinance
// @Param        id      path     string                true "Case ID" format(uuid)
// @Param        request body     mfapp.RecoveryRequest true "Recovery"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/recovery [post]
func (h *CollectionCaseHandler) RecordRecovery(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.RecoveryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cc, err := h.service.RecordRecovery(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}

// Settle godoc
// @ID           settleCollectionCase
// @Summary      Settle a case
// @Tags         microfinance
// @Param        id      path     string                  true "Case ID" format(uuid)
// @Param        request body     mfapp.SettleCaseRequest true "Settlement"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/settle [post]
func (h *CollectionCaseHandler) Settle(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.SettleCaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cc, err := h.service.Settle(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}

// WriteOff godoc
// @ID           writeOffCollectionCase
// @Summary      Write off a case
// @Tags         microfinance
// @Param        id      path     string                  true  "Case ID" format(uuid)
// @Param        request body     mfapp.CaseReasonRequest false "Reason"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/write-off [post]
func (h *CollectionCaseHandler) WriteOff(c *gin.Context) {
	h.withReason(c, h.service.WriteOff)
}

// Close godoc
// @ID           closeCollectionCase
// @Summary      Close a case
// @Tags         microfinance
// @Param        id      path     string                  true  "Case ID" format(uuid)
// @Param        request body     mfapp.CaseReasonRequest false "Reason"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/close [post]
func (h *CollectionCaseHandler) Close(c *gin.Context) {
	h.withReason(c, h.service.Close)
}

// UpdateArrears godoc
// @ID           updateCollectionArrears
// @Summary      Refresh overdue figures
// @Description  Priority and classification are recomputed from days past due
// @Tags         microfinance
// @Param        id      path     string                     true "Case ID" format(uuid)
// @Param        request body     mfapp.UpdateArrearsRequest true "Arrears"
// @Success      200     {object} APIResponse[mfapp.CollectionCaseResponse]
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id}/arrears [post]
func (h *CollectionCaseHandler) UpdateArrears(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.UpdateArrearsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cc, err := h.service.UpdateArrears(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}

// Delete godoc
// @ID           deleteCollectionCase
// @Summary      Delete a collection case
// @Tags         microfinance
// @Param        id path string true "Case ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /microfinance/collection-cases/{id} [delete]
func (h *CollectionCaseHandler) Delete(c *gin.Context) {
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

type caseReasonFunc func(ctx context.Context, tenantID, caseID uuid.UUID, req mfapp.CaseReasonRequest) (*mfapp.CollectionCaseResponse, error)

func (h *CollectionCaseHandler) withReason(c *gin.Context, fn caseReasonFunc) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req mfapp.CaseReasonRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	cc, err := fn(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, cc, err)
}
