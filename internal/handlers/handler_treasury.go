package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// treasuryHandler handles money movements between accounts and salary
// batches.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

func newTreasuryHandler(ts portssvc.TreasurySvcFacade) *treasuryHandler {
	return &treasuryHandler{treasuryService: ts}
}

// registerTreasuryRoutes registers transfer, payroll and employee
// disbursement routes.
func registerTreasuryRoutes(rg *gin.RouterGroup, ts portssvc.TreasurySvcFacade) {
	h := newTreasuryHandler(ts)

	rg.POST("/transfers", h.transfer)
	rg.POST("/payroll", h.paySalaries)
	rg.POST("/employees/:id/payments", h.payEmployee)
	rg.POST("/employees/:id/rewards", h.grantReward)
}

// transfer godoc
// @Summary Transfer money between two accounts
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 204 "Transferred"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /transfers [post]
func (h *treasuryHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.treasuryService.Transfer(c.Request.Context(), actor, req); err != nil {
		respondError(c, err, "Failed to transfer")
		return
	}
	c.Status(http.StatusNoContent)
}

// paySalaries godoc
// @Summary Pay a salary batch out of one account
// @Description The whole batch is gated on the account balance; one journal entry covers it
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   batch body dto.PaySalariesRequest true "Salary batch"
// @Success 200 {object} map[string]string "Total paid"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /payroll [post]
func (h *treasuryHandler) paySalaries(c *gin.Context) {
	var req dto.PaySalariesRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	total, err := h.treasuryService.PaySalaries(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to pay salaries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payMonth": req.PayMonth, "total": total.String()})
}

// payEmployee godoc
// @Summary Pay an employee against an advance, custody or reward balance
// @Description ADVANCE and CUSTODY raise the employee's balance; REWARD settles accrued reward
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   id path string true "Employee ID"
// @Param   payment body dto.PayEmployeeRequest true "Payment details"
// @Success 204 "Paid"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /employees/{id}/payments [post]
func (h *treasuryHandler) payEmployee(c *gin.Context) {
	var req dto.PayEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.treasuryService.PayEmployee(c.Request.Context(), actor, c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to pay employee")
		return
	}
	c.Status(http.StatusNoContent)
}

// grantReward godoc
// @Summary Accrue a reward for an employee without moving cash
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   id path string true "Employee ID"
// @Param   reward body dto.GrantRewardRequest true "Reward details"
// @Success 204 "Granted"
// @Security BearerAuth
// @Router /employees/{id}/rewards [post]
func (h *treasuryHandler) grantReward(c *gin.Context) {
	var req dto.GrantRewardRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.treasuryService.GrantEmployeeReward(c.Request.Context(), actor, c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to grant reward")
		return
	}
	c.Status(http.StatusNoContent)
}
