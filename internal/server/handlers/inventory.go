package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
	"github.com/poultrydesk/eggledger/internal/service/inventory"
)

// InventoryHandler serves inventory snapshot reads and administrative
// deletion.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP adapter for the inventory ledger.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns every snapshot, newest first.
func (h *InventoryHandler) List(c *gin.Context) {
	snapshots, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// Current returns the latest snapshot.
func (h *InventoryHandler) Current(c *gin.Context) {
	snap, err := h.svc.Latest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// ByDate returns the snapshot for one day.
func (h *InventoryHandler) ByDate(c *gin.Context) {
	date, err := models.ParseDay(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	snap, err := h.svc.ByDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Delete removes a snapshot record.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "inventory deleted successfully"})
}
