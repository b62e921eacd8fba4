package prompts

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

type PromptVersionRepo interface {
	Create(dbc dbctx.Context, versions []*types.PromptVersion) ([]*types.PromptVersion, error)
	CreateVariables(dbc dbctx.Context, vars []*types.PromptVariable) ([]*types.PromptVariable, error)
	CreateMessages(dbc dbctx.Context, msgs []*types.PromptMessage) ([]*types.PromptMessage, error)
	LinkTags(dbc dbctx.Context, versionID int64, tags []*types.PromptTag) error
	GetByPromptID(dbc dbctx.Context, promptID int64) ([]*types.PromptVersion, error)
}

type promptVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptVersionRepo(db *gorm.DB, baseLog *logger.Logger) PromptVersionRepo {
	repoLog := baseLog.With("repo", "PromptVersionRepo")
	return &promptVersionRepo{db: db, log: repoLog}
}

func (r *promptVersionRepo) Create(dbc dbctx.Context, versions []*types.PromptVersion) ([]*types.PromptVersion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(versions) == 0 {
		return []*types.PromptVersion{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *promptVersionRepo) CreateVariables(dbc dbctx.Context, vars []*types.PromptVariable) ([]*types.PromptVariable, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(vars) == 0 {
		return []*types.PromptVariable{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&vars).Error; err != nil {
		return nil, err
	}
	return vars, nil
}

func (r *promptVersionRepo) CreateMessages(dbc dbctx.Context, msgs []*types.PromptMessage) ([]*types.PromptMessage, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(msgs) == 0 {
		return []*types.PromptMessage{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// LinkTags writes the version↔tag reference rows in tag order. Every tag must already be
// persisted.
func (r *promptVersionRepo) LinkTags(dbc dbctx.Context, versionID int64, tags []*types.PromptTag) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(tags) == 0 {
		return nil
	}
	links := make([]types.PromptVersionTag, 0, len(tags))
	for i, tag := range tags {
		if tag == nil {
			continue
		}
		links = append(links, types.PromptVersionTag{PromptVersionID: versionID, PromptTagID: tag.ID, Position: i})
	}
	if len(links) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *promptVersionRepo) GetByPromptID(dbc dbctx.Context, promptID int64) ([]*types.PromptVersion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var results []*types.PromptVersion
	if err := t.WithContext(dbc.Ctx).
		Preload("Variables", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Where("prompt_id = ?", promptID).
		Order("position, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	if err := loadVersionTags(t.WithContext(dbc.Ctx), results); err != nil {
		return nil, err
	}
	return results, nil
}

// loadVersionTags fills each version's tags from the join rows in stored position order. A plain
// many2many preload would return them in tag id order.
func loadVersionTags(t *gorm.DB, versions []*types.PromptVersion) error {
	byVersion := make(map[int64]*types.PromptVersion, len(versions))
	ids := make([]int64, 0, len(versions))
	for _, v := range versions {
		if v == nil {
			continue
		}
		v.Tags = []*types.PromptTag{}
		if _, ok := byVersion[v.ID]; !ok {
			byVersion[v.ID] = v
			ids = append(ids, v.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var links []types.PromptVersionTag
	if err := t.Session(&gorm.Session{NewDB: true}).
		Where("prompt_version_id IN ?", ids).
		Order("prompt_version_id, position, prompt_tag_id").
		Find(&links).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	seen := map[int64]struct{}{}
	tagIDs := make([]int64, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l.PromptTagID]; !ok {
			seen[l.PromptTagID] = struct{}{}
			tagIDs = append(tagIDs, l.PromptTagID)
		}
	}
	var tags []*types.PromptTag
	if err := t.Session(&gorm.Session{NewDB: true}).
		Where("id IN ?", tagIDs).
		Find(&tags).Error; err != nil {
		return err
	}
	tagByID := make(map[int64]*types.PromptTag, len(tags))
	for _, tag := range tags {
		tagByID[tag.ID] = tag
	}
	for _, l := range links {
		v := byVersion[l.PromptVersionID]
		tag, ok := tagByID[l.PromptTagID]
		if v == nil || !ok {
			continue
		}
		v.Tags = append(v.Tags, tag)
	}
	return nil
}
