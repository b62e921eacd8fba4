package prompts

import (
	"gorm.io/gorm"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

type PromptTagRepo interface {
	Create(dbc dbctx.Context, tags []*types.PromptTag) ([]*types.PromptTag, error)
	GetByOwnerAndNames(dbc dbctx.Context, ownerID int64, names []string) ([]*types.PromptTag, error)
	ListByOwner(dbc dbctx.Context, ownerID int64) ([]*types.PromptTag, error)
}

type promptTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptTagRepo(db *gorm.DB, baseLog *logger.Logger) PromptTagRepo {
	repoLog := baseLog.With("repo", "PromptTagRepo")
	return &promptTagRepo{db: db, log: repoLog}
}

// Create inserts new tags. A name already taken in the scope fails on the unique index.
func (r *promptTagRepo) Create(dbc dbctx.Context, tags []*types.PromptTag) ([]*types.PromptTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(tags) == 0 {
		return []*types.PromptTag{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *promptTagRepo) GetByOwnerAndNames(dbc dbctx.Context, ownerID int64, names []string) ([]*types.PromptTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.PromptTag
	if len(names) == 0 {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("owner_id = ? AND name IN ?", ownerID, names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *promptTagRepo) ListByOwner(dbc dbctx.Context, ownerID int64) ([]*types.PromptTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.PromptTag
	if err := t.WithContext(dbc.Ctx).
		Where("owner_id = ?", ownerID).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
