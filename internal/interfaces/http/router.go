// Package http assembles the control plane's REST surface: route
// registration (router.go) and the HTTP server lifecycle wrapper
// (server.go) that serves it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seekr-io/seekr/internal/interfaces/http/handlers"
	"github.com/seekr-io/seekr/internal/interfaces/http/middleware"
	"github.com/seekr-io/seekr/internal/platform/logging"
)

// RouterConfig aggregates every handler and the logger needed to build the
// route tree.
type RouterConfig struct {
	ClusterHandler      *handlers.ClusterHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	HealthHandler       *handlers.HealthHandler
	Logger              logging.Logger
	MetricsHandler      http.Handler
}

// NewRouter builds the complete route tree: public health and metrics
// endpoints, and the /api/v1 cluster/subscription resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	registerClusterRoutes(api, cfg.ClusterHandler)
	registerSubscriptionRoutes(api, cfg.SubscriptionHandler)

	return r
}

func registerClusterRoutes(r *gin.RouterGroup, h *handlers.ClusterHandler) {
	if h == nil {
		return
	}
	clusters := r.Group("/clusters")
	clusters.POST("", h.Create)
	clusters.GET("", h.List)
	clusters.GET("/:id", h.Get)
	clusters.PUT("/:id", h.Update)
	clusters.DELETE("/:id", h.Delete)
	clusters.GET("/:id/metadata", h.Metadata)
}

func registerSubscriptionRoutes(r *gin.RouterGroup, h *handlers.SubscriptionHandler) {
	if h == nil {
		return
	}
	subs := r.Group("/subscriptions")
	subs.POST("", h.Create)
	subs.GET("/:cluster_id", h.List)
	subs.GET("/:cluster_id/:id", h.Get)
	subs.PUT("/:cluster_id/:id", h.Update)
	subs.DELETE("/:cluster_id/:id", h.Delete)
}
