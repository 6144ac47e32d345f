package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// projectHandler handles project aggregates: creation, units and partners.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
	partnerService portssvc.PartnerSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade, pns portssvc.PartnerSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps, partnerService: pns}
}

// registerProjectRoutes registers project CRUD, unit and partner routes.
func registerProjectRoutes(rg *gin.RouterGroup, ps portssvc.ProjectSvcFacade, pns portssvc.PartnerSvcFacade) {
	h := newProjectHandler(ps, pns)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:id", h.getProject)
		projects.POST("/:id/units", h.addUnit)
		projects.PUT("/:id/partners", h.updatePartners)
		projects.POST("/:id/partners/payout", h.payPartnerProfit)
	}
}

// createProject godoc
// @Summary Create a project
// @Description Creates the project, its dedicated fund account and its budget lines atomically
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Tags projects
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.ProjectResponse
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	limit, offset := listWindow(c)
	projects, err := h.projectService.ListProjects(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "Failed to list projects")
		return
	}
	out := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		out[i] = dto.ToProjectResponse(&projects[i])
	}
	c.JSON(http.StatusOK, out)
}

// getProject godoc
// @Summary Get a project with its budget items, units and partners
// @Tags projects
// @Produce  json
// @Param   id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	project, err := h.projectService.GetProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// addUnit godoc
// @Summary Add a sellable unit to a project
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   unit body dto.CreateUnitRequest true "Unit details"
// @Success 201 {object} dto.UnitResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{id}/units [post]
func (h *projectHandler) addUnit(c *gin.Context) {
	var req dto.CreateUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	unit, err := h.projectService.AddUnit(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to add unit")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUnitResponse(unit))
}

// updatePartners godoc
// @Summary Replace a project's partner map
// @Description Investment increases are funded from the given source account, or booked as external capital
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   partners body dto.UpdatePartnersRequest true "New partner map"
// @Success 200 {array} domain.ProjectPartner
// @Failure 422 {object} map[string]string "Insufficient source balance"
// @Security BearerAuth
// @Router /projects/{id}/partners [put]
func (h *projectHandler) updatePartners(c *gin.Context) {
	var req dto.UpdatePartnersRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	partners, err := h.partnerService.UpdatePartners(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update partners")
		return
	}
	c.JSON(http.StatusOK, partners)
}

// payPartnerProfit godoc
// @Summary Distribute profit to a partner out of the project fund
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   payout body dto.PayPartnerProfitRequest true "Payout details"
// @Success 204 "Paid"
// @Failure 422 {object} map[string]string "Amount exceeds projected profit or fund balance"
// @Security BearerAuth
// @Router /projects/{id}/partners/payout [post]
func (h *projectHandler) payPartnerProfit(c *gin.Context) {
	var req dto.PayPartnerProfitRequest
	if !bindJSON(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.partnerService.PayPartnerProfit(c.Request.Context(), actor, c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to pay partner profit")
		return
	}
	c.Status(http.StatusNoContent)
}
