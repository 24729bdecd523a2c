package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Raphi52/OnlyVIP-sub000/internal/http/handler"
	"github.com/Raphi52/OnlyVIP-sub000/internal/http/middleware"
)

type RouterConfig struct {
	CronSecret      string
	TraceHeaderName string
	Gatherer        prometheus.Gatherer
}

type Dependencies struct {
	Processor  handler.QueueProcessor
	Attributor handler.SaleAttributor
}

func SetupRoutes(router *gin.Engine, deps Dependencies, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	ai := router.Group("/api/v1/ai", middleware.RequireCronSecret(cfg.CronSecret))
	{
		queueHandler := handler.NewQueueHandler(deps.Processor, cfg.TraceHeaderName)
		QueueRouter(ai.Group("/queue"), queueHandler)

		salesHandler := handler.NewSalesHandler(deps.Attributor)
		SalesRouter(ai.Group("/sales"), salesHandler)
	}
}
