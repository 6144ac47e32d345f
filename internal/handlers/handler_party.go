package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// partyHandler handles customers, suppliers and employees.
type partyHandler struct {
	partyService    portssvc.PartySvcFacade
	installmentRepo portsrepo.InstallmentRepository
}

func newPartyHandler(ps portssvc.PartySvcFacade, ir portsrepo.InstallmentRepository) *partyHandler {
	return &partyHandler{partyService: ps, installmentRepo: ir}
}

// registerPartyRoutes registers customer, supplier and employee routes.
func registerPartyRoutes(rg *gin.RouterGroup, ps portssvc.PartySvcFacade, ir portsrepo.InstallmentRepository) {
	h := newPartyHandler(ps, ir)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
		customers.GET("/:id/installments", h.listCustomerInstallments)
	}
	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.createSupplier)
		suppliers.GET("", h.listSuppliers)
		suppliers.GET("/:id", h.getSupplier)
	}
	employees := rg.Group("/employees")
	{
		employees.POST("", h.createEmployee)
		employees.GET("", h.listEmployees)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Security BearerAuth
// @Router /customers [post]
func (h *partyHandler) createCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	customer, err := h.partyService.CreateCustomer(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// listCustomers godoc
// @Summary List customers
// @Tags parties
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.CustomerResponse
// @Security BearerAuth
// @Router /customers [get]
func (h *partyHandler) listCustomers(c *gin.Context) {
	limit, offset := listWindow(c)
	customers, err := h.partyService.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list customers")
		return
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, dto.ToCustomerResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, out)
}

// getCustomer godoc
// @Summary Get a customer
// @Tags parties
// @Produce  json
// @Param   id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *partyHandler) getCustomer(c *gin.Context) {
	customer, err := h.partyService.GetCustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// listCustomerInstallments godoc
// @Summary List a customer's installments across all units
// @Tags parties
// @Produce  json
// @Param   id path string true "Customer ID"
// @Success 200 {array} dto.InstallmentResponse
// @Security BearerAuth
// @Router /customers/{id}/installments [get]
func (h *partyHandler) listCustomerInstallments(c *gin.Context) {
	rows, err := h.installmentRepo.ListInstallmentsByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list installments")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponses(rows))
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   supplier body dto.CreateSupplierRequest true "Supplier details"
// @Success 201 {object} dto.SupplierResponse
// @Security BearerAuth
// @Router /suppliers [post]
func (h *partyHandler) createSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	supplier, err := h.partyService.CreateSupplier(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSupplierResponse(supplier))
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags parties
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.SupplierResponse
// @Security BearerAuth
// @Router /suppliers [get]
func (h *partyHandler) listSuppliers(c *gin.Context) {
	limit, offset := listWindow(c)
	suppliers, err := h.partyService.ListSuppliers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list suppliers")
		return
	}
	out := make([]dto.SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, dto.ToSupplierResponse(&suppliers[i]))
	}
	c.JSON(http.StatusOK, out)
}

// getSupplier godoc
// @Summary Get a supplier with outstanding balance
// @Tags parties
// @Produce  json
// @Param   id path string true "Supplier ID"
// @Success 200 {object} dto.SupplierResponse
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /suppliers/{id} [get]
func (h *partyHandler) getSupplier(c *gin.Context) {
	supplier, err := h.partyService.GetSupplierByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve supplier")
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplierResponse(supplier))
}

// createEmployee godoc
// @Summary Create an employee
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} dto.EmployeeResponse
// @Security BearerAuth
// @Router /employees [post]
func (h *partyHandler) createEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	employee, err := h.partyService.CreateEmployee(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

// listEmployees godoc
// @Summary List employees with their running balances
// @Tags parties
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.EmployeeResponse
// @Security BearerAuth
// @Router /employees [get]
func (h *partyHandler) listEmployees(c *gin.Context) {
	limit, offset := listWindow(c)
	employees, err := h.partyService.ListEmployees(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}
	out := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, dto.ToEmployeeResponse(&employees[i]))
	}
	c.JSON(http.StatusOK, out)
}
