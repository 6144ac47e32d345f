package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// accountHandler handles HTTP requests related to treasury accounts.
type accountHandler struct {
	accountService  portssvc.AccountSvcFacade
	treasuryService portssvc.TreasurySvcFacade
	journalService  portssvc.JournalSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, ts portssvc.TreasurySvcFacade, js portssvc.JournalSvcFacade) *accountHandler {
	return &accountHandler{accountService: as, treasuryService: ts, journalService: js}
}

// RegisterAccountRoutes registers routes related to accounts. Exported so
// handler tests can mount the routes on their own router.
func RegisterAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, ts portssvc.TreasurySvcFacade, js portssvc.JournalSvcFacade) {
	h := newAccountHandler(as, ts, js)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deactivateAccount)
		accounts.GET("/:id/journal", h.listAccountJournal)
	}
}

// createAccount godoc
// @Summary Create a treasury account
// @Description Creates an account; a positive opening balance is journaled as a capital injection
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	account, err := h.treasuryService.CreateAccount(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	limit, offset := listWindow(c)
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Rename an account or change its description
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Soft-deletes the account; history referencing it is kept
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// listAccountJournal godoc
// @Summary List ledger entries touching one account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /accounts/{id}/journal [get]
func (h *accountHandler) listAccountJournal(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntriesByAccount(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, err, "Failed to list account journal")
		return
	}
	c.JSON(http.StatusOK, resp)
}
