package app

import (
	"gorm.io/gorm"

	dataagg "github.com/yungbote/promptlib-backend/internal/data/aggregates"
	"github.com/yungbote/promptlib-backend/internal/observability"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"github.com/yungbote/promptlib-backend/internal/services"
)

type Services struct {
	Prompts services.PromptService
}

func wireServices(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	writer := dataagg.NewPromptWriter(dataagg.PromptWriterDeps{
		Base: dataagg.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: dataagg.NewObservabilityHooks(metrics),
		},
		Prompts:  reposet.Prompt,
		Versions: reposet.PromptVersion,
		Tags:     reposet.PromptTag,
	})
	return Services{
		Prompts: services.NewPromptService(log, writer, reposet.Prompt, reposet.PromptTag, clients.Identity),
	}
}
