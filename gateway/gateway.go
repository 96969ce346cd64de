// Package gateway is the HTTP surface over the order core and the pricing
// table admin operations.
package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/example/localmart/pkg/config"
	"github.com/example/localmart/pkg/orders"
	"github.com/example/localmart/pkg/pricing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Gateway struct {
	config  *config.Config
	logger  *zap.Logger
	router  *gin.Engine
	orders  *orders.Service
	pricing *pricing.Table
}

func NewGateway(cfg *config.Config, logger *zap.Logger, orderSvc *orders.Service, table *pricing.Table) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:  cfg,
		logger:  logger,
		router:  router,
		orders:  orderSvc,
		pricing: table,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := g.router.Group("/api/v1")
	{
		// Order routes
		ordersGroup := v1.Group("/orders")
		{
			ordersGroup.POST("", g.createOrder)
			ordersGroup.GET("", g.listOrders)
			ordersGroup.GET("/summary", g.orderSummary)
			ordersGroup.GET("/:id", g.getOrder)
			ordersGroup.PATCH("/:id/status", g.updateOrderStatus)
			ordersGroup.DELETE("/:id", g.cancelOrder)
		}

		// Delivery charge band routes
		bands := v1.Group("/delivery-charges")
		{
			bands.POST("", g.createBand)
			bands.GET("", g.listBands)
			bands.GET("/calculate", g.calculateCharge)
			bands.GET("/:id", g.getBand)
			bands.PUT("/:id", g.updateBand)
			bands.DELETE("/:id", g.deactivateBand)
		}
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
