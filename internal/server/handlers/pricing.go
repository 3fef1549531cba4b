package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/service/pricing"
)

// PricingHandler serves the price table.
type PricingHandler struct {
	svc    *pricing.Service
	logger *zap.Logger
}

// NewPricingHandler constructs the HTTP adapter for pricing.
func NewPricingHandler(svc *pricing.Service, logger *zap.Logger) *PricingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingHandler{svc: svc, logger: logger}
}

type upsertPricingRequest struct {
	Size          string  `json:"size" binding:"required"`
	PricePerTray  float64 `json:"pricePerTray"`
	PricePerPiece float64 `json:"pricePerPiece"`
}

type updatePricingRequest struct {
	PricePerTray  float64 `json:"pricePerTray"`
	PricePerPiece float64 `json:"pricePerPiece"`
}

// List returns every configured price.
func (h *PricingHandler) List(c *gin.Context) {
	records, err := h.svc.All(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// BySize returns one category's price.
func (h *PricingHandler) BySize(c *gin.Context) {
	size, err := models.ParseSize(c.Param("size"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.svc.BySize(c.Request.Context(), size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Upsert creates or replaces a category's price.
func (h *PricingHandler) Upsert(c *gin.Context) {
	var req upsertPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid pricing payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	size, err := models.ParseSize(req.Size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.svc.Upsert(c.Request.Context(), size, req.PricePerTray, req.PricePerPiece)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Update revises an existing category price.
func (h *PricingHandler) Update(c *gin.Context) {
	var req updatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid pricing payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	size, err := models.ParseSize(c.Param("size"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record, err := h.svc.Update(c.Request.Context(), size, req.PricePerTray, req.PricePerPiece)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Initialize seeds default prices for any category missing one.
func (h *PricingHandler) Initialize(c *gin.Context) {
	records, err := h.svc.InitializeDefaults(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
