package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/service/sales"
)

// SalesHandler serves sale settlement, lookup, and reversal.
type SalesHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSalesHandler constructs the HTTP adapter for sales.
func NewSalesHandler(svc *sales.Service, logger *zap.Logger) *SalesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesHandler{svc: svc, logger: logger}
}

type saleItemRequest struct {
	Size   string `json:"size" binding:"required"`
	Trays  int    `json:"trays"`
	Pieces int    `json:"pieces"`
}

type createSaleRequest struct {
	Date  string            `json:"date" binding:"required"`
	Items []saleItemRequest `json:"items" binding:"required,min=1"`
	Notes string            `json:"notes"`
}

// List returns every sale, newest first.
func (h *SalesHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Range returns sales between startDate and endDate inclusive.
func (h *SalesHandler) Range(c *gin.Context) {
	start, err := models.ParseDay(c.Query("startDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	end, err := models.ParseDay(c.Query("endDate"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.svc.InRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ByDate returns the day's sales.
func (h *SalesHandler) ByDate(c *gin.Context) {
	date, err := models.ParseDay(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.svc.ForDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ByID returns one sale.
func (h *SalesHandler) ByID(c *gin.Context) {
	sale, err := h.svc.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Create settles a sale against the date's inventory.
func (h *SalesHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	date, err := models.ParseDay(req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := make([]sales.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, sales.ItemInput{
			Size:   models.Size(item.Size),
			Trays:  item.Trays,
			Pieces: item.Pieces,
		})
	}

	sale, err := h.svc.Create(c.Request.Context(), date, items, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// Delete reverses a sale and removes its record.
func (h *SalesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sale deleted and inventory restored"})
}
