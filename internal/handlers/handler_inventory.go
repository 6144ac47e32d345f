package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// inventoryHandler handles the item catalogue and stock withdrawals.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventoryService: is}
}

// registerInventoryRoutes registers inventory routes.
func registerInventoryRoutes(rg *gin.RouterGroup, is portssvc.InventorySvcFacade) {
	h := newInventoryHandler(is)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("/items", h.createItem)
		inventory.GET("/items", h.listItems)
		inventory.GET("/items/:id", h.getItem)
		inventory.POST("/withdrawals", h.withdrawToProject)
	}
}

// createItem godoc
// @Summary Register a stocked material
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateInventoryItemRequest true "Item details"
// @Success 201 {object} dto.InventoryItemResponse
// @Security BearerAuth
// @Router /inventory/items [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	var req dto.CreateInventoryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create item")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInventoryItemResponse(item))
}

// listItems godoc
// @Summary List inventory items
// @Tags inventory
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.InventoryItemResponse
// @Security BearerAuth
// @Router /inventory/items [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	limit, offset := listWindow(c)
	items, err := h.inventoryService.ListItems(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list items")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryItemResponses(items))
}

// getItem godoc
// @Summary Get an inventory item
// @Tags inventory
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /inventory/items/{id} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	item, err := h.inventoryService.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve item")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// withdrawToProject godoc
// @Summary Issue stock to a project
// @Description Creates a numbered withdrawal expense costed at the latest purchase price (or average cost) and reduces stock
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.WithdrawToProjectRequest true "Withdrawal details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /inventory/withdrawals [post]
func (h *inventoryHandler) withdrawToProject(c *gin.Context) {
	var req dto.WithdrawToProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	expense, err := h.inventoryService.WithdrawToProject(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to withdraw stock")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}
