package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// expenseHandler handles the expense lifecycle.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
	expenseRepo    portsrepo.ExpenseRepository
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade, er portsrepo.ExpenseRepository) *expenseHandler {
	return &expenseHandler{expenseService: es, expenseRepo: er}
}

// registerExpenseRoutes registers expense routes.
func registerExpenseRoutes(rg *gin.RouterGroup, es portssvc.ExpenseSvcFacade, er portsrepo.ExpenseRepository) {
	h := newExpenseHandler(es, er)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.recordExpense)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
	rg.GET("/projects/:id/expenses", h.listProjectExpenses)
}

// recordExpense godoc
// @Summary Record a project expense
// @Description Moves the account balance, project spend, budget spend and the journal together
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 422 {object} map[string]string "Insufficient account balance"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) recordExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.RecordExpense(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	expense, err := h.expenseRepo.FindExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// updateExpense godoc
// @Summary Amend an expense
// @Description Applies the amount delta to the account and totals; changing the budget item moves the full amount between lines
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 409 {object} map[string]string "Inventory withdrawals cannot be edited"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	var req dto.UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense, reversing its financial effects
// @Tags expenses
// @Produce  json
// @Param   id path string true "Expense ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// listProjectExpenses godoc
// @Summary List a project's expenses newest-first
// @Tags expenses
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.ExpenseResponse
// @Security BearerAuth
// @Router /projects/{id}/expenses [get]
func (h *expenseHandler) listProjectExpenses(c *gin.Context) {
	limit, offset := listWindow(c)
	expenses, err := h.expenseRepo.ListExpensesByProject(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list expenses")
		return
	}
	out := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = dto.ToExpenseResponse(&expenses[i])
	}
	c.JSON(http.StatusOK, out)
}
