package repos

import (
	"github.com/yungbote/promptlib-backend/internal/data/repos/prompts"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type PromptRepo = prompts.PromptRepo
type PromptVersionRepo = prompts.PromptVersionRepo
type PromptTagRepo = prompts.PromptTagRepo

type PromptPageQuery = prompts.PageQuery

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return prompts.NewPromptRepo(db, baseLog)
}
func NewPromptVersionRepo(db *gorm.DB, baseLog *logger.Logger) PromptVersionRepo {
	return prompts.NewPromptVersionRepo(db, baseLog)
}
func NewPromptTagRepo(db *gorm.DB, baseLog *logger.Logger) PromptTagRepo {
	return prompts.NewPromptTagRepo(db, baseLog)
}
