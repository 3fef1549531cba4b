package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poultrydesk/eggledger/internal/server/handlers"
)

// Handlers bundles every HTTP adapter the router mounts.
type Handlers struct {
	Inventory  *handlers.InventoryHandler
	Production *handlers.ProductionHandler
	Pricing    *handlers.PricingHandler
	Sales      *handlers.SalesHandler
	Reports    *handlers.ReportsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	inv := api.Group("/inventory")
	inv.GET("", h.Inventory.List)
	inv.GET("/current", h.Inventory.Current)
	inv.GET("/date/:date", h.Inventory.ByDate)
	inv.DELETE("/:id", h.Inventory.Delete)

	prod := api.Group("/production")
	prod.GET("", h.Production.List)
	prod.GET("/date/:date", h.Production.ByDate)
	prod.POST("", h.Production.Record)
	prod.PUT("/:id", h.Production.Update)
	prod.DELETE("/:id", h.Production.Delete)

	price := api.Group("/pricing")
	price.GET("", h.Pricing.List)
	price.POST("", h.Pricing.Upsert)
	price.POST("/initialize", h.Pricing.Initialize)
	price.GET("/:size", h.Pricing.BySize)
	price.PUT("/:size", h.Pricing.Update)

	sale := api.Group("/sales")
	sale.GET("", h.Sales.List)
	sale.GET("/range", h.Sales.Range)
	sale.GET("/date/:date", h.Sales.ByDate)
	sale.POST("", h.Sales.Create)
	sale.GET("/:id", h.Sales.ByID)
	sale.DELETE("/:id", h.Sales.Delete)

	reports := api.Group("/reports")
	reports.GET("/production/:date", h.Reports.Production)
	reports.GET("/sales/:date", h.Reports.Sales)
	reports.GET("/inventory/:date", h.Reports.Inventory)
	reports.GET("/dashboard", h.Reports.Dashboard)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
			zap.String("client_ip", c.ClientIP()))
	}
}
