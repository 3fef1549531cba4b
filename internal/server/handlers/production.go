package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/service/production"
)

// ProductionHandler serves harvest entry CRUD.
type ProductionHandler struct {
	svc    *production.Service
	logger *zap.Logger
}

// NewProductionHandler constructs the HTTP adapter for production.
func NewProductionHandler(svc *production.Service, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{svc: svc, logger: logger}
}

type recordProductionRequest struct {
	Date      string          `json:"date" binding:"required"`
	Harvested models.EggCount `json:"harvested"`
}

type updateProductionRequest struct {
	Harvested models.EggCount `json:"harvested"`
}

// List returns every harvest entry, newest first.
func (h *ProductionHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ByDate returns the day's harvest entries.
func (h *ProductionHandler) ByDate(c *gin.Context) {
	date, err := models.ParseDay(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entries, err := h.svc.ByDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Record appends a harvest entry and propagates its ending balance.
func (h *ProductionHandler) Record(c *gin.Context) {
	var req recordProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	date, err := models.ParseDay(req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	entry, err := h.svc.Record(c.Request.Context(), date, req.Harvested)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Update revises an entry's harvested counts.
func (h *ProductionHandler) Update(c *gin.Context) {
	var req updateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Harvested)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete removes an entry and recomputes the day's snapshot.
func (h *ProductionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "production record deleted"})
}
