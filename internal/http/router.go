package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/skugen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/skugen-backend/internal/http/middleware"
	"github.com/yungbote/skugen-backend/internal/observability"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName     string
	Tracing         bool
	AllowedOrigins  []string
	MaxRequestBytes int64

	HealthHandler *httpH.HealthHandler
	SKUHandler    *httpH.SKUHandler
	ThemeHandler  *httpH.ThemeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.BodyLimit(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.ReadyCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.SKUHandler != nil {
			api.GET("/options", cfg.SKUHandler.Options)
			api.GET("/skus", cfg.SKUHandler.List)
			api.POST("/skus", cfg.SKUHandler.Generate)
			api.DELETE("/skus", cfg.SKUHandler.Clear)
			api.DELETE("/skus/:index", cfg.SKUHandler.Delete)
			api.GET("/skus/export", cfg.SKUHandler.Export)
		}

		if cfg.ThemeHandler != nil {
			api.GET("/theme", cfg.ThemeHandler.Get)
			api.PUT("/theme", cfg.ThemeHandler.Set)
		}
	}

	return r
}
