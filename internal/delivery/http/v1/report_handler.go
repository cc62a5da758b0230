package v1

import (
	"net/http"
	"strconv"

	"thinqor-ats/internal/delivery/http/response"
	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportUC domain.ReportUsecase
}

// NewReportHandler mounts the reports under v1 and, with the paths existing
// dashboards already call, under legacy.
func NewReportHandler(v1, legacy *gin.RouterGroup, reportUC domain.ReportUsecase) {
	handler := &ReportHandler{reportUC: reportUC}

	reports := v1.Group("/reports")
	{
		reports.GET("/clients", handler.GetClients)
		reports.GET("/clients/:id/requirements", handler.GetClientRequirements)
		reports.GET("/requirements/:id/stats", handler.GetRequirementStats)
		reports.GET("/stats", handler.GetGeneralStats)
	}

	if legacy == nil {
		return
	}
	old := legacy.Group("/reports")
	{
		old.GET("/clients", handler.GetClients)
		old.GET("/client/:id/requirements", handler.GetClientRequirements)
		old.GET("/requirement/:id/stats", handler.GetRequirementStats)
		old.GET("/stats", handler.GetGeneralStats)
	}
}

// GetClients godoc
// @Summary      List active clients
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Client}
// @Router       /v1/reports/clients [get]
func (h *ReportHandler) GetClients(c *gin.Context) {
	clients, err := h.reportUC.Clients(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Clients retrieved", clients)
}

// GetClientRequirements godoc
// @Summary      List a client's requirements, newest first
// @Tags         reports
// @Produce      json
// @Param        id   path      int  true  "Client ID"
// @Success      200  {object}  response.Response{data=[]domain.Requirement}
// @Failure      400  {object}  response.Response
// @Router       /v1/reports/clients/{id}/requirements [get]
func (h *ReportHandler) GetClientRequirements(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid client ID"))
		return
	}

	reqs, err := h.reportUC.ClientRequirements(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Requirements retrieved", reqs)
}

// GetRequirementStats godoc
// @Summary      Progress of one requirement
// @Description  Requirement header, progress rows grouped by stage and status, and the distinct candidate count
// @Tags         reports
// @Produce      json
// @Param        id   path      int  true  "Requirement ID"
// @Success      200  {object}  response.Response{data=domain.RequirementStats}
// @Failure      404  {object}  response.Response
// @Router       /v1/reports/requirements/{id}/stats [get]
func (h *ReportHandler) GetRequirementStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid requirement ID"))
		return
	}

	stats, err := h.reportUC.RequirementStats(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Requirement stats retrieved", stats)
}

// GetGeneralStats godoc
// @Summary      Dashboard totals
// @Tags         reports
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.GeneralStats}
// @Router       /v1/reports/stats [get]
func (h *ReportHandler) GetGeneralStats(c *gin.Context) {
	stats, err := h.reportUC.GeneralStats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Stats retrieved", stats)
}
