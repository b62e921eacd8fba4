package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/promptlib-backend/internal/http/handlers"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Prompt *httpH.PromptHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Prompt: httpH.NewPromptHandler(log, services.Prompts),
	}
}
