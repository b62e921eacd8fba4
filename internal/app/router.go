package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/promptlib-backend/internal/http"
	"github.com/yungbote/promptlib-backend/internal/observability"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,
		AuthMiddleware: middleware.Auth,
		PromptHandler:  handlers.Prompt,
		HealthHandler:  handlers.Health,
	})
}
