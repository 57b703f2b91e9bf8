package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vparedes/maricultor/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(lots *handlers.LotHandler, harvests *handlers.HarvestHandler, projections *handlers.ProjectionHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/lots", lots.CreateLot)
	r.GET("/lots", lots.ListLots)
	r.GET("/lots/:id", lots.GetLot)
	r.GET("/lots/:id/projection", lots.GetProjection)
	r.GET("/lots/:id/reconciliation", lots.GetReconciliation)
	r.POST("/lots/:id/measurements", lots.CreateMeasurement)
	r.GET("/lots/:id/measurements", lots.ListMeasurements)
	r.POST("/lots/:id/investments", lots.CreateInvestment)
	r.GET("/lots/:id/investments", lots.ListInvestments)
	r.POST("/lots/:id/expenses", lots.CreateExpense)

	r.POST("/harvests", harvests.CreatePlan)
	r.GET("/harvests/:id", harvests.GetPlan)
	r.PATCH("/harvests/:id/status", harvests.UpdateStatus)
	r.GET("/harvests/:id/distributions", harvests.ListDistributions)

	r.POST("/projections/financial", projections.Calculate)
	r.POST("/projections/financial/montecarlo", projections.MonteCarlo)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
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
			zap.String("client_ip", c.ClientIP()))
	}
}
