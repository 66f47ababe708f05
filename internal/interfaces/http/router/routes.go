package router

import (
	"net/http"

	"github.com/erp/lobapi/internal/interfaces/http/handler"
)

// Handlers bundles every API handler mounted by Domains
type Handlers struct {
	Accounts          *handler.ChartOfAccountHandler
	AccountingPeriods *handler.AccountingPeriodHandler
	Bills             *handler.BillHandler

	Employees     *handler.EmployeeHandler
	LeaveRequests *handler.LeaveRequestHandler

	Warehouses       *handler.WarehouseHandler
	Suppliers        *handler.SupplierHandler
	SerialNumbers    *handler.SerialNumberHandler
	StockAdjustments *handler.StockAdjustmentHandler

	FixedDeposits   *handler.FixedDepositHandler
	CollectionCases *handler.CollectionCaseHandler

	Conversations *handler.ConversationHandler
	Messages      *handler.MessageHandler
	Hub           *handler.HubHandler

	System *handler.SystemHandler
}

// Domains returns the route groups of every bounded context
func Domains(h Handlers) []*DomainGroup {
	return []*DomainGroup{
		accountingRoutes(h),
		hrRoutes(h),
		storeRoutes(h),
		microfinanceRoutes(h),
		messagingRoutes(h),
		systemRoutes(h),
	}
}

func accountingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("accounting", "/accounting")

	accounts := g.Group("accounts", "/accounts").Resource("account")
	accounts.CRUD(h.Accounts.Create, h.Accounts.Search, h.Accounts.GetByID, h.Accounts.Update, h.Accounts.Delete).
		Action(http.MethodPost, "/:id/balance", "update", h.Accounts.UpdateBalance).
		Action(http.MethodPost, "/:id/activate", "update", h.Accounts.Activate).
		Action(http.MethodPost, "/:id/deactivate", "update", h.Accounts.Deactivate)

	periods := g.Group("periods", "/periods").Resource("accounting_period")
	periods.CRUD(h.AccountingPeriods.Create, h.AccountingPeriods.Search, h.AccountingPeriods.GetByID, h.AccountingPeriods.Update, h.AccountingPeriods.Delete).
		Action(http.MethodPost, "/:id/close", "close", h.AccountingPeriods.Close).
		Action(http.MethodPost, "/:id/reopen", "close", h.AccountingPeriods.Reopen)

	bills := g.Group("bills", "/bills").Resource("bill")
	bills.CRUD(h.Bills.Create, h.Bills.Search, h.Bills.GetByID, h.Bills.Update, h.Bills.Delete).
		Action(http.MethodPost, "/:id/approve", "approve", h.Bills.Approve).
		Action(http.MethodPost, "/:id/reject", "approve", h.Bills.Reject).
		Action(http.MethodPost, "/:id/post", "post", h.Bills.Post).
		Action(http.MethodPost, "/:id/pay", "pay", h.Bills.MarkAsPaid).
		Action(http.MethodPost, "/:id/void", "void", h.Bills.Void)
	return g
}

func hrRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("hr", "/hr")

	employees := g.Group("employees", "/employees").Resource("employee")
	employees.CRUD(h.Employees.Create, h.Employees.Search, h.Employees.GetByID, nil, h.Employees.Delete).
		Action(http.MethodPost, "/:id/contact-info", "update", h.Employees.UpdateContactInfo).
		Action(http.MethodPost, "/:id/personal-info", "update", h.Employees.UpdatePersonalInfo).
		Action(http.MethodPost, "/:id/hire-date", "update", h.Employees.SetHireDate).
		Action(http.MethodPost, "/:id/leave", "update", h.Employees.MarkOnLeave).
		Action(http.MethodPost, "/:id/return", "update", h.Employees.ReturnFromLeave).
		Action(http.MethodPost, "/:id/regularize", "update", h.Employees.Regularize).
		Action(http.MethodPost, "/:id/terminate", "terminate", h.Employees.Terminate).
		Action(http.MethodPost, "/:id/salary", "salary", h.Employees.SetBasicSalary)

	leaves := g.Group("leave-requests", "/leave-requests").Resource("leave")
	leaves.CRUD(h.LeaveRequests.Create, h.LeaveRequests.Search, h.LeaveRequests.GetByID, h.LeaveRequests.Update, h.LeaveRequests.Delete).
		Action(http.MethodPost, "/:id/submit", "update", h.LeaveRequests.Submit).
		Action(http.MethodPost, "/:id/cancel", "update", h.LeaveRequests.Cancel).
		Action(http.MethodPost, "/:id/approve", "approve", h.LeaveRequests.Approve).
		Action(http.MethodPost, "/:id/reject", "approve", h.LeaveRequests.Reject)
	return g
}

func storeRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("store", "/store")

	warehouses := g.Group("warehouses", "/warehouses").Resource("warehouse")
	warehouses.Action(http.MethodGet, "/main", "read", h.Warehouses.GetMain).
		CRUD(h.Warehouses.Create, h.Warehouses.Search, h.Warehouses.GetByID, h.Warehouses.Update, h.Warehouses.Delete).
		Action(http.MethodPost, "/:id/capacity", "update", h.Warehouses.UpdateCapacity).
		Action(http.MethodPost, "/:id/activate", "update", h.Warehouses.Activate).
		Action(http.MethodPost, "/:id/deactivate", "update", h.Warehouses.Deactivate).
		Action(http.MethodPost, "/:id/set-main", "update", h.Warehouses.SetAsMain)

	suppliers := g.Group("suppliers", "/suppliers").Resource("supplier")
	suppliers.CRUD(h.Suppliers.Create, h.Suppliers.Search, h.Suppliers.GetByID, h.Suppliers.Update, h.Suppliers.Delete).
		Action(http.MethodPost, "/:id/rating", "update", h.Suppliers.UpdateRating).
		Action(http.MethodPost, "/:id/activate", "update", h.Suppliers.Activate).
		Action(http.MethodPost, "/:id/deactivate", "update", h.Suppliers.Deactivate)

	serials := g.Group("serial-numbers", "/serial-numbers").Resource("serial_number")
	serials.CRUD(h.SerialNumbers.Create, h.SerialNumbers.Search, h.SerialNumbers.GetByID, h.SerialNumbers.Update, h.SerialNumbers.Delete).
		Action(http.MethodPost, "/:id/notes", "update", h.SerialNumbers.AddNotes)

	adjustments := g.Group("stock-adjustments", "/stock-adjustments").Resource("stock_adjustment")
	adjustments.CRUD(h.StockAdjustments.Create, h.StockAdjustments.Search, h.StockAdjustments.GetByID, h.StockAdjustments.Update, h.StockAdjustments.Delete).
		Action(http.MethodPost, "/:id/approve", "approve", h.StockAdjustments.Approve)
	return g
}

func microfinanceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("microfinance", "/microfinance")

	deposits := g.Group("fixed-deposits", "/fixed-deposits").Resource("fixed_deposit")
	deposits.CRUD(h.FixedDeposits.Create, h.FixedDeposits.Search, h.FixedDeposits.GetByID, nil, nil).
		Action(http.MethodPost, "/:id/post-interest", "interest", h.FixedDeposits.PostInterest).
		Action(http.MethodPost, "/:id/pay-interest", "interest", h.FixedDeposits.PayInterest).
		Action(http.MethodPost, "/:id/mature", "update", h.FixedDeposits.Mature).
		Action(http.MethodPost, "/:id/renew", "update", h.FixedDeposits.Renew).
		Action(http.MethodPost, "/:id/close-premature", "close", h.FixedDeposits.ClosePremature).
		Action(http.MethodPost, "/:id/maturity-instruction", "update", h.FixedDeposits.UpdateMaturityInstruction)

	cases := g.Group("collection-cases", "/collection-cases").Resource("collection_case")
	cases.CRUD(h.CollectionCases.Create, h.CollectionCases.Search, h.CollectionCases.GetByID, nil, h.CollectionCases.Delete).
		Action(http.MethodPost, "/:id/assign", "assign", h.CollectionCases.Assign).
		Action(http.MethodPost, "/:id/contact", "update", h.CollectionCases.RecordContact).
		Action(http.MethodPost, "/:id/promise", "update", h.CollectionCases.RecordPromiseToPay).
		Action(http.MethodPost, "/:id/recovery", "update", h.CollectionCases.RecordRecovery).
		Action(http.MethodPost, "/:id/arrears", "update", h.CollectionCases.UpdateArrears).
		Action(http.MethodPost, "/:id/escalate", "escalate", h.CollectionCases.EscalateToLegal).
		Action(http.MethodPost, "/:id/settle", "settle", h.CollectionCases.Settle).
		Action(http.MethodPost, "/:id/write-off", "write_off", h.CollectionCases.WriteOff).
		Action(http.MethodPost, "/:id/close", "close", h.CollectionCases.Close)
	return g
}

func messagingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("messaging", "/messaging")

	conversations := g.Group("conversations", "/conversations").Resource("conversation")
	conversations.CRUD(h.Conversations.Create, h.Conversations.ListMine, h.Conversations.GetByID, nil, nil).
		Action(http.MethodPost, "/:id/participants", "update", h.Conversations.AddParticipant).
		Action(http.MethodDelete, "/:id/participants/:userId", "update", h.Conversations.RemoveParticipant).
		Action(http.MethodPost, "/:id/archive", "update", h.Conversations.Archive)

	// Nested under conversations but gated as messages
	convMessages := g.Group("conversation-messages", "/conversations/:id").Resource("message")
	convMessages.Action(http.MethodPost, "/messages", "create", h.Messages.Send).
		Action(http.MethodPost, "/messages/search", "read", h.Messages.List).
		Action(http.MethodPost, "/read", "read", h.Messages.MarkRead).
		Action(http.MethodPost, "/attachments", "create", h.Messages.RequestAttachmentUpload)

	messages := g.Group("messages", "/messages").Resource("message")
	messages.Action(http.MethodPut, "/:id", "update", h.Messages.Edit).
		Action(http.MethodDelete, "/:id", "delete", h.Messages.Delete).
		Action(http.MethodGet, "/:id/attachment", "read", h.Messages.AttachmentDownloadURL)

	g.Group("hub", "/hub").Resource("message").Action(http.MethodGet, "", "read", h.Hub.Connect)
	return g
}

func systemRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)
}
