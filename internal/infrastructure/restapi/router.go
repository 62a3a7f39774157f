package restapi

import (
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/pkg/metrics"
)

// RouterOptions задает промежуточные обработчики роутера. Все поля необязательны.
type RouterOptions struct {
	Logger         port.Logger
	Metrics        *metrics.HTTP
	Gatherer       prometheus.Gatherer // nil означает prometheus.DefaultGatherer
	AllowedOrigins []string            // пусто означает любой источник
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(handler *ConfigHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	if opts.Logger != nil || opts.Metrics != nil {
		router.Use(requestObserver(opts.Logger, opts.Metrics))
	}

	// Группа для API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/config", handler.GetConfigHandler)
		v1.GET("/networks", handler.GetNetworksHandler)
		v1.GET("/networks/:name", handler.GetNetworkHandler)
		v1.GET("/preflight", handler.GetPreflightHandler)
	}

	router.GET("/healthz", handler.HealthHandler)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return router
}

// requestObserver логирует каждый запрос и обновляет HTTP метрики.
func requestObserver(logger port.Logger, m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		if m != nil {
			m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			m.Latency.WithLabelValues(route).Observe(elapsed.Seconds())
		}
		if logger != nil {
			logger.Debug("HTTP request",
				"method", c.Request.Method,
				"route", route,
				"status", status,
				"duration", elapsed)
		}
	}
}
