package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/domain/models"
)

// respondError translates domain errors into HTTP responses. Stock and
// pricing failures carry their structured details so the caller can adjust
// the request instead of guessing.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":   stockErr.Error(),
			"size":      stockErr.Size,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}

	var pricingErr *models.PricingMissingError
	if errors.As(err, &pricingErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": pricingErr.Error(),
			"size":    pricingErr.Size,
		})
		return
	}

	var unsafeErr *models.UnsafeDeletionError
	if errors.As(err, &unsafeErr) {
		c.JSON(http.StatusConflict, gin.H{
			"message":   unsafeErr.Error(),
			"size":      unsafeErr.Size,
			"shortfall": unsafeErr.Shortfall,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrNoInventory):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "concurrent update, please retry"})
	default:
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
