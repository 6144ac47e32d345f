package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// salesHandler handles the unit sale lifecycle and installment collection.
type salesHandler struct {
	salesService    portssvc.SalesSvcFacade
	installmentRepo portsrepo.InstallmentRepository
}

func newSalesHandler(ss portssvc.SalesSvcFacade, ir portsrepo.InstallmentRepository) *salesHandler {
	return &salesHandler{salesService: ss, installmentRepo: ir}
}

// registerSalesRoutes registers unit lifecycle and installment routes.
func registerSalesRoutes(rg *gin.RouterGroup, ss portssvc.SalesSvcFacade, ir portsrepo.InstallmentRepository) {
	h := newSalesHandler(ss, ir)

	units := rg.Group("/projects/:id/units")
	{
		units.POST("/:unitID/book", h.bookUnit)
		units.POST("/:unitID/confirm", h.confirmSale)
		units.POST("/:unitID/cancel", h.cancelBooking)
		units.GET("/:unitID/installments", h.listUnitInstallments)
	}
	rg.POST("/installments/:id/collect", h.collectInstallment)
}

// bookUnit godoc
// @Summary Book or directly sell a unit
// @Description Moves an AVAILABLE unit to BOOKED or SOLD, collecting the down payment into the project fund and scheduling installments for the remainder
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   unitID path string true "Unit ID"
// @Param   booking body dto.BookUnitRequest true "Booking terms"
// @Success 200 {object} dto.UnitResponse
// @Failure 409 {object} map[string]string "Unit is not available"
// @Security BearerAuth
// @Router /projects/{id}/units/{unitID}/book [post]
func (h *salesHandler) bookUnit(c *gin.Context) {
	var req dto.BookUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	unit, err := h.salesService.BookUnit(c.Request.Context(), actor, c.Param("id"), c.Param("unitID"), req)
	if err != nil {
		respondError(c, err, "Failed to book unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

// confirmSale godoc
// @Summary Confirm a booked unit as sold
// @Tags sales
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   unitID path string true "Unit ID"
// @Success 200 {object} dto.UnitResponse
// @Failure 409 {object} map[string]string "Unit is not booked"
// @Security BearerAuth
// @Router /projects/{id}/units/{unitID}/confirm [post]
func (h *salesHandler) confirmSale(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	unit, err := h.salesService.ConfirmSale(c.Request.Context(), actor, c.Param("id"), c.Param("unitID"))
	if err != nil {
		respondError(c, err, "Failed to confirm sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

// cancelBooking godoc
// @Summary Cancel a booking
// @Description Returns the unit to AVAILABLE, refunds the down payment from the fund and deletes the pending schedule
// @Tags sales
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   unitID path string true "Unit ID"
// @Success 200 {object} dto.UnitResponse
// @Failure 409 {object} map[string]string "Unit is not booked"
// @Failure 422 {object} map[string]string "Fund cannot cover the refund"
// @Security BearerAuth
// @Router /projects/{id}/units/{unitID}/cancel [post]
func (h *salesHandler) cancelBooking(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	unit, err := h.salesService.CancelBooking(c.Request.Context(), actor, c.Param("id"), c.Param("unitID"))
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

// listUnitInstallments godoc
// @Summary List a unit's installment schedule
// @Tags sales
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   unitID path string true "Unit ID"
// @Success 200 {array} dto.InstallmentResponse
// @Security BearerAuth
// @Router /projects/{id}/units/{unitID}/installments [get]
func (h *salesHandler) listUnitInstallments(c *gin.Context) {
	rows, err := h.installmentRepo.ListInstallmentsByUnit(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		respondError(c, err, "Failed to list installments")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponses(rows))
}

// collectInstallment godoc
// @Summary Collect one pending installment into a treasury account
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   id path string true "Installment ID"
// @Param   collection body dto.CollectInstallmentRequest true "Deposit account"
// @Success 204 "Collected"
// @Failure 409 {object} map[string]string "Installment is not pending"
// @Security BearerAuth
// @Router /installments/{id}/collect [post]
func (h *salesHandler) collectInstallment(c *gin.Context) {
	var req dto.CollectInstallmentRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.salesService.CollectInstallment(c.Request.Context(), actor, c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to collect installment")
		return
	}
	c.Status(http.StatusNoContent)
}
