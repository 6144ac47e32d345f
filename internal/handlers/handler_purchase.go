package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// purchaseHandler handles supplier invoices and payments.
type purchaseHandler struct {
	purchaseService portssvc.PurchaseSvcFacade
	purchaseRepo    portsrepo.PurchaseRepository
}

func newPurchaseHandler(ps portssvc.PurchaseSvcFacade, pr portsrepo.PurchaseRepository) *purchaseHandler {
	return &purchaseHandler{purchaseService: ps, purchaseRepo: pr}
}

// registerPurchaseRoutes registers invoice and supplier payment routes.
func registerPurchaseRoutes(rg *gin.RouterGroup, ps portssvc.PurchaseSvcFacade, pr portsrepo.PurchaseRepository) {
	h := newPurchaseHandler(ps, pr)

	invoices := rg.Group("/purchase-invoices")
	{
		invoices.POST("", h.recordInvoice)
		invoices.GET("/:id", h.getInvoice)
	}
	rg.GET("/suppliers/:id/invoices", h.listSupplierInvoices)
	rg.POST("/suppliers/:id/payments", h.paySupplier)
}

// recordInvoice godoc
// @Summary Record a supplier invoice
// @Description Assigns the next invoice number, raises the supplier payable and optionally settles a partial payment; INVENTORY invoices restock lines at weighted-average cost
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreatePurchaseInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.PurchaseInvoiceResponse
// @Failure 422 {object} map[string]string "Insufficient payment account balance"
// @Security BearerAuth
// @Router /purchase-invoices [post]
func (h *purchaseHandler) recordInvoice(c *gin.Context) {
	var req dto.CreatePurchaseInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	invoice, err := h.purchaseService.RecordPurchaseInvoice(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to record invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPurchaseInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice with its lines
// @Tags purchases
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.PurchaseInvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /purchase-invoices/{id} [get]
func (h *purchaseHandler) getInvoice(c *gin.Context) {
	invoice, err := h.purchaseRepo.FindInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseInvoiceResponse(invoice))
}

// listSupplierInvoices godoc
// @Summary List one supplier's invoices newest-first
// @Tags purchases
// @Produce  json
// @Param   id path string true "Supplier ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.PurchaseInvoiceResponse
// @Security BearerAuth
// @Router /suppliers/{id}/invoices [get]
func (h *purchaseHandler) listSupplierInvoices(c *gin.Context) {
	limit, offset := listWindow(c)
	invoices, err := h.purchaseRepo.ListInvoicesBySupplier(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	out := make([]dto.PurchaseInvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = dto.ToPurchaseInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, out)
}

// paySupplier godoc
// @Summary Pay down a supplier balance
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   id path string true "Supplier ID"
// @Param   payment body dto.PaySupplierRequest true "Payment details"
// @Success 204 "Paid"
// @Failure 422 {object} map[string]string "Insufficient account balance"
// @Security BearerAuth
// @Router /suppliers/{id}/payments [post]
func (h *purchaseHandler) paySupplier(c *gin.Context) {
	var req dto.PaySupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.purchaseService.PaySupplier(c.Request.Context(), actor, c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to pay supplier")
		return
	}
	c.Status(http.StatusNoContent)
}
