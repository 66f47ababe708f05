package handler

import (
	hrapp "github.com/erp/lobapi/internal/application/hr"
	"github.com/erp/lobapi/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler serves /hr/employees
type EmployeeHandler struct {
	BaseHandler
	service *hrapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(service *hrapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Create godoc
// @ID           createEmployee
// @Summary      Create an employee
// @Description  New employees start active and probationary unless a classification is given
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        request body     hrapp.CreateEmployeeRequest true "Employee"
// @Success      201     {object} APIResponse[hrapp.EmployeeResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req hrapp.CreateEmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// GetByID godoc
// @ID           getEmployee
// @Summary      Get an employee
// @Tags         hr
// @Param        id  path     string true "Employee ID" format(uuid)
// @Success      200 {object} APIResponse[hrapp.EmployeeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, employee, err)
}

// Search godoc
// @ID           searchEmployees
// @Summary      Search employees
// @Tags         hr
// @Param        request body     hrapp.SearchEmployeesRequest false "Filter"
// @Success      200     {object} ListResponse[hrapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /hr/employees/search [post]
func (h *EmployeeHandler) Search(c *gin.Context) {
	var req hrapp.SearchEmployeesRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// UpdateContactInfo godoc
// @ID           updateEmployeeContactInfo
// @Summary      Update an employee's email and phone
// @Tags         hr
// @Param        id      path     string                          true "Employee ID" format(uuid)
// @Param        request body     hrapp.UpdateContactInfoRequest true "Contact info"
// @Success      200     {object} APIResponse[hrapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /hr/employees/{id}/contact-info [post]
func (h *EmployeeHandler) UpdateContactInfo(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.UpdateContactInfoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.service.UpdateContactInfo(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, employee, err)
}

// UpdatePersonalInfo godoc
// @ID           updateEmployeePersonalInfo
// @Summary      Update an employee's name
// @Tags         hr
// @Param        id      path     string                           true "Employee ID" format(uuid)
// @Param        request body     hrapp.UpdatePersonalInfoRequest true "Personal info"
// @Success      200     {object} APIResponse[hrapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /hr/employees/{id}/personal-info [post]
func (h *EmployeeHandler) UpdatePersonalInfo(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.UpdatePersonalInfoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.service.UpdatePersonalInfo(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, employee, err)
}

// SetHireDate godoc
// @ID           setEmployeeHireDate
// @Summary      Set an employee's hire date
// @Tags         hr
// @Param        id      path     string                    true "Employee ID" format(uuid)
// @Param        request body     hrapp.SetHireDateRequest true "Hire date"
// @Success      200     {object} APIResponse[hrapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /hr/employees/{id}/hire-date [post]
func (h *EmployeeHandler) SetHireDate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.SetHireDateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.service.SetHireDate(c.Request.Context(), getTenantID(c), id, req.HireDate)
	respond(&h.BaseHandler, c, employee, err)
}

// MarkOnLeave godoc
// @ID           markEmployeeOnLeave
// @Summary      Put an active employee on leave
// @Tags         hr
// @Param        id  path     string true "Employee ID" format(uuid)
// @Success      200 {object} APIResponse[hrapp.EmployeeResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id}/leave [post]
func (h *EmployeeHandler) MarkOnLeave(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.service.MarkOnLeave(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, employee, err)
}

// ReturnFromLeave godoc
// @ID           returnEmployeeFromLeave
// @Summary      Return an employee from leave
// @Tags         hr
// @Param        id  path     string true "Employee ID" format(uuid)
// @Success      200 {object} APIResponse[hrapp.EmployeeResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id}/return [post]
func (h *EmployeeHandler) ReturnFromLeave(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.service.ReturnFromLeave(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, employee, err)
}

// Terminate godoc
// @ID           terminateEmployee
// @Summary      Terminate an employee
// @Tags         hr
// @Param        id      path     string                          true  "Employee ID" format(uuid)
// @Param        request body     hrapp.TerminateEmployeeRequest false "Termination"
// @Success      200     {object} APIResponse[hrapp.EmployeeResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/employees/{id}/terminate [post]
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.TerminateEmployeeRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	employee, err := h.service.Terminate(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, employee, err)
}

// Regularize godoc
// @ID           regularizeEmployee
// @Summary      Regularize a probationary employee
// @Tags         hr
// @Param        id      path     string                           true  "Employee ID" format(uuid)
// @Param        request body     hrapp.RegularizeEmployeeRequest false "Regularization date"
// @Success      200     {object} APIResponse[hrapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /hr/employees/{id}/regularize [post]
func (h *EmployeeHandler) Regularize(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.RegularizeEmployeeRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	employee, err := h.service.Regularize(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, employee, err)
}

// SetBasicSalary godoc
// @ID           setEmployeeSalary
// @Summary      Set an employee's basic monthly salary
// @Tags         hr
// @Param        id      path     string                  true "Employee ID" format(uuid)
// @Param        request body     hrapp.SetSalaryRequest true "Salary"
// @Success      200     {object} APIResponse[hrapp.EmployeeResponse]
// @Security     BearerAuth
// @Router       /hr/employees/{id}/salary [post]
func (h *EmployeeHandler) SetBasicSalary(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.SetSalaryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	employee, err := h.service.SetBasicSalary(c.Request.Context(), getTenantID(c), id, req.BasicMonthlySalary)
	respond(&h.BaseHandler, c, employee, err)
}

// Delete godoc
// @ID           deleteEmployee
// @Summary      Delete an employee
// @Tags         hr
// @Param        id path string true "Employee ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /hr/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
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

// LeaveRequestHandler serves /hr/leave-requests
type LeaveRequestHandler struct {
	BaseHandler
	service *hrapp.LeaveRequestService
}

// NewLeaveRequestHandler creates a new LeaveRequestHandler
func NewLeaveRequestHandler(service *hrapp.LeaveRequestService) *LeaveRequestHandler {
	return &LeaveRequestHandler{service: service}
}

// Create godoc
// @ID           createLeaveRequest
// @Summary      Draft a leave request
// @Tags         hr
// @Param        request body     hrapp.CreateLeaveRequest true "Leave"
// @Success      201     {object} APIResponse[hrapp.LeaveRequestResponse]
// @Failure      400     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/leave-requests [post]
func (h *LeaveRequestHandler) Create(c *gin.Context) {
	var req hrapp.CreateLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	leave, err := h.service.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, leave)
}

// GetByID godoc
// @ID           getLeaveRequest
// @Summary      Get a leave request
// @Tags         hr
// @Param        id  path     string true "Leave request ID" format(uuid)
// @Success      200 {object} APIResponse[hrapp.LeaveRequestResponse]
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id} [get]
func (h *LeaveRequestHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	leave, err := h.service.GetByID(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, leave, err)
}

// Search godoc
// @ID           searchLeaveRequests
// @Summary      Search leave requests
// @Tags         hr
// @Param        request body     hrapp.SearchLeaveRequestsRequest false "Filter"
// @Success      200     {object} ListResponse[hrapp.LeaveRequestResponse]
// @Security     BearerAuth
// @Router       /hr/leave-requests/search [post]
func (h *LeaveRequestHandler) Search(c *gin.Context) {
	var req hrapp.SearchLeaveRequestsRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.service.Search(c.Request.Context(), getTenantID(c), req)
	respondPage(&h.BaseHandler, c, page, err)
}

// Update godoc
// @ID           updateLeaveRequest
// @Summary      Update a draft leave request
// @Tags         hr
// @Param        id      path     string                   true "Leave request ID" format(uuid)
// @Param        request body     hrapp.UpdateLeaveRequest true "Changes"
// @Success      200     {object} APIResponse[hrapp.LeaveRequestResponse]
// @Failure      422     {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id} [put]
func (h *LeaveRequestHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.UpdateLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	leave, err := h.service.Update(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, leave, err)
}

// Submit godoc
// @ID           submitLeaveRequest
// @Summary      Submit a draft leave request for approval
// @Description  Returns 202 since approval happens later
// @Tags         hr
// @Param        id  path     string true "Leave request ID" format(uuid)
// @Success      202 {object} APIResponse[hrapp.LeaveRequestResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id}/submit [post]
func (h *LeaveRequestHandler) Submit(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	leave, err := h.service.Submit(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, leave)
}

// Approve godoc
// @ID           approveLeaveRequest
// @Summary      Approve a pending leave request
// @Tags         hr
// @Param        id      path     string                    true "Leave request ID" format(uuid)
// @Param        request body     hrapp.ApproveLeaveRequest true "Approver"
// @Success      200     {object} APIResponse[hrapp.LeaveRequestResponse]
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id}/approve [post]
func (h *LeaveRequestHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.ApproveLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	leave, err := h.service.Approve(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, leave, err)
}

// Reject godoc
// @ID           rejectLeaveRequest
// @Summary      Reject a pending leave request
// @Tags         hr
// @Param        id      path     string                   true "Leave request ID" format(uuid)
// @Param        request body     hrapp.RejectLeaveRequest true "Reason"
// @Success      200     {object} APIResponse[hrapp.LeaveRequestResponse]
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id}/reject [post]
func (h *LeaveRequestHandler) Reject(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req hrapp.RejectLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	leave, err := h.service.Reject(c.Request.Context(), getTenantID(c), id, req)
	respond(&h.BaseHandler, c, leave, err)
}

// Cancel godoc
// @ID           cancelLeaveRequest
// @Summary      Cancel a leave request
// @Tags         hr
// @Param        id  path     string true "Leave request ID" format(uuid)
// @Success      200 {object} APIResponse[hrapp.LeaveRequestResponse]
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id}/cancel [post]
func (h *LeaveRequestHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	leave, err := h.service.Cancel(c.Request.Context(), getTenantID(c), id)
	respond(&h.BaseHandler, c, leave, err)
}

// Delete godoc
// @ID           deleteLeaveRequest
// @Summary      Delete a draft leave request
// @Tags         hr
// @Param        id  path     string true "Leave request ID" format(uuid)
// @Success      200 {object} APIResponse[dto.IDResponse]
// @Security     BearerAuth
// @Router       /hr/leave-requests/{id} [delete]
func (h *LeaveRequestHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), getTenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.IDResponse{ID: id.String()})
}
