package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// journalHandler serves read-only ledger views.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	auditService   portssvc.AuditSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade, as portssvc.AuditSvcFacade) *journalHandler {
	return &journalHandler{journalService: js, auditService: as}
}

// registerJournalRoutes registers ledger and audit-log read routes.
func registerJournalRoutes(rg *gin.RouterGroup, js portssvc.JournalSvcFacade, as portssvc.AuditSvcFacade) {
	h := newJournalHandler(js, as)

	rg.GET("/journal", h.listEntries)
	rg.GET("/audit", h.listAuditRecords)
}

// listEntries godoc
// @Summary List ledger entries newest-first
// @Tags journal
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /journal [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listAuditRecords godoc
// @Summary List audit log records newest-first
// @Tags journal
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} domain.AuditRecord
// @Security BearerAuth
// @Router /audit [get]
func (h *journalHandler) listAuditRecords(c *gin.Context) {
	limit, offset := listWindow(c)
	records, err := h.auditService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list audit records")
		return
	}
	c.JSON(http.StatusOK, records)
}
