package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/service/reporting"
)

// ReportsHandler serves the aggregated read-only views.
type ReportsHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP adapter for reports.
func NewReportsHandler(svc *reporting.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

// Production returns the aggregated harvest report for a day.
func (h *ReportsHandler) Production(c *gin.Context) {
	date, err := models.ParseDay(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.svc.ProductionForDay(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Sales returns the per-category sales summary for a day.
func (h *ReportsHandler) Sales(c *gin.Context) {
	date, err := models.ParseDay(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.svc.SalesForDay(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Inventory returns the stored snapshot for a day.
func (h *ReportsHandler) Inventory(c *gin.Context) {
	date, err := models.ParseDay(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	snap, err := h.svc.InventoryForDay(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Dashboard returns the overview summary.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
