package prompts

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

const (
	SortByCreatedAt = "created_at"
	SortByName      = "name"
	SortByID        = "id"
)

// PageQuery selects one page of a scope's prompts. TagIDs keeps prompts with at least one version
// referencing any of the tags.
type PageQuery struct {
	OwnerID   int64
	TagIDs    []int64
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

type PromptRepo interface {
	Create(dbc dbctx.Context, prompts []*types.Prompt) ([]*types.Prompt, error)
	GetByID(dbc dbctx.Context, ownerID, id int64) (*types.Prompt, error)
	ListPage(dbc dbctx.Context, q PageQuery) ([]*types.Prompt, int64, error)
}

type promptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	repoLog := baseLog.With("repo", "PromptRepo")
	return &promptRepo{db: db, log: repoLog}
}

// Create inserts prompt rows only; versions are written by PromptVersionRepo.
func (r *promptRepo) Create(dbc dbctx.Context, prompts []*types.Prompt) ([]*types.Prompt, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(prompts) == 0 {
		return []*types.Prompt{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit(clause.Associations).Create(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

// GetByID loads the full graph of one prompt within ownerID. Returns gorm.ErrRecordNotFound when
// the prompt is missing or belongs to another scope.
func (r *promptRepo) GetByID(dbc dbctx.Context, ownerID, id int64) (*types.Prompt, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var p types.Prompt
	if err := preloadGraph(t.WithContext(dbc.Ctx)).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&p).Error; err != nil {
		return nil, err
	}
	if err := loadVersionTags(t.WithContext(dbc.Ctx), p.Versions); err != nil {
		return nil, err
	}
	relinkGraph(&p)
	return &p, nil
}

func (r *promptRepo) ListPage(dbc dbctx.Context, q PageQuery) ([]*types.Prompt, int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	base := t.WithContext(dbc.Ctx).Model(&types.Prompt{}).Where("prompt.owner_id = ?", q.OwnerID)
	if len(q.TagIDs) > 0 {
		base = base.Where(`prompt.id IN (
			SELECT pv.prompt_id FROM prompt_version pv
			JOIN prompt_version_tags pvt ON pvt.prompt_version_id = pv.id
			WHERE pvt.prompt_tag_id IN ?)`, q.TagIDs)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*types.Prompt
	if total == 0 {
		return rows, 0, nil
	}
	order, err := orderClause(q.SortBy, q.SortOrder)
	if err != nil {
		return nil, 0, err
	}
	query := base.Session(&gorm.Session{}).Order(order).Order("prompt.id")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if err := preloadGraph(query).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var versions []*types.PromptVersion
	for _, p := range rows {
		versions = append(versions, p.Versions...)
	}
	if err := loadVersionTags(t.WithContext(dbc.Ctx), versions); err != nil {
		return nil, 0, err
	}
	for _, p := range rows {
		relinkGraph(p)
	}
	return rows, total, nil
}

func orderClause(sortBy, sortOrder string) (string, error) {
	col := strings.ToLower(strings.TrimSpace(sortBy))
	switch col {
	case "":
		col = SortByCreatedAt
	case SortByCreatedAt, SortByName, SortByID:
	default:
		return "", fmt.Errorf("unsupported sort_by %q", sortBy)
	}
	dir := strings.ToLower(strings.TrimSpace(sortOrder))
	switch dir {
	case "", "desc":
		dir = "DESC"
	case "asc":
		dir = "ASC"
	default:
		return "", fmt.Errorf("unsupported sort_order %q", sortOrder)
	}
	return "prompt." + col + " " + dir, nil
}

func preloadGraph(t *gorm.DB) *gorm.DB {
	return t.
		Preload("Versions", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Versions.Variables", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Versions.Messages", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") })
}

// relinkGraph restores the back edges preloading leaves empty.
func relinkGraph(p *types.Prompt) {
	for _, v := range p.Versions {
		v.Prompt = p
		for _, pv := range v.Variables {
			pv.PromptVersion = v
		}
		for _, m := range v.Messages {
			m.PromptVersion = v
		}
	}
}
