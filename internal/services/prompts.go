package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dataagg "github.com/yungbote/promptlib-backend/internal/data/aggregates"
	"github.com/yungbote/promptlib-backend/internal/data/repos"
	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	promptmod "github.com/yungbote/promptlib-backend/internal/modules/prompts"
	"github.com/yungbote/promptlib-backend/internal/observability"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"github.com/yungbote/promptlib-backend/internal/platform/pointers"
)

const (
	opCreatePrompt  = "prompts.create"
	opCreateVersion = "prompts.create_version"
	opListPrompts   = "prompts.list"
	opGetPrompt     = "prompts.get"
	opListTags      = "prompts.list_tags"

	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListParams selects one listing page. Zero values mean defaults.
type ListParams struct {
	TagIDs    []int64
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

type PromptPage struct {
	Rows   []promptmod.PromptSummary `json:"rows"`
	Total  int64                     `json:"total"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}

// PromptDetail is a prompt read back through one of its versions.
type PromptDetail struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Description  *string              `json:"description,omitempty"`
	OwnerID      int64                `json:"owner_id"`
	CreatedAt    time.Time            `json:"created_at"`
	VersionCount int                  `json:"version_count"`
	Version      *types.PromptVersion `json:"version"`
	Author       *types.Author        `json:"author,omitempty"`
}

type PromptService interface {
	Create(ctx context.Context, actorID, scope int64, in *promptmod.PromptInput) (*PromptDetail, error)
	CreateVersion(ctx context.Context, actorID, scope, promptID int64, in *promptmod.VersionInput) (*PromptDetail, error)
	List(ctx context.Context, scope int64, params ListParams) (*PromptPage, error)
	Get(ctx context.Context, scope, id int64) (*PromptDetail, error)
	ListTags(ctx context.Context, scope int64) ([]*types.PromptTag, error)
}

type promptService struct {
	log     *logger.Logger
	writer  dataagg.PromptWriter
	prompts repos.PromptRepo
	tags    repos.PromptTagRepo
	lookup  promptmod.IdentityLookup
}

func NewPromptService(log *logger.Logger, writer dataagg.PromptWriter, promptRepo repos.PromptRepo, tagRepo repos.PromptTagRepo, lookup promptmod.IdentityLookup) PromptService {
	return &promptService{
		log:     log.With("service", "PromptService"),
		writer:  writer,
		prompts: promptRepo,
		tags:    tagRepo,
		lookup:  lookup,
	}
}

func (s *promptService) Create(ctx context.Context, actorID, scope int64, in *promptmod.PromptInput) (*PromptDetail, error) {
	ctx, span := startSpan(ctx, "PromptService.Create", scope)
	defer span.End()

	if err := requireScope(opCreatePrompt, scope); err != nil {
		return nil, endSpan(span, err)
	}
	if in == nil {
		return nil, endSpan(span, domainagg.ValidationError(opCreatePrompt, domainagg.Violation{Field: "body", Rule: "required", Message: "payload is required"}))
	}
	in.SetOwnerID(scope)
	for _, v := range in.Versions {
		if v != nil {
			v.SetAuthorID(actorID)
		}
	}
	if err := in.Validate(); err != nil {
		return nil, endSpan(span, err)
	}
	if len(in.Versions) == 0 {
		return nil, endSpan(span, domainagg.ValidationError(opCreatePrompt, domainagg.Violation{
			Field: "versions", Rule: "min", Message: "at least one version is required",
		}))
	}

	var built *types.Prompt
	err := s.writer.Write(ctx, opCreatePrompt, func(uow *dataagg.UnitOfWork) error {
		b := promptmod.NewBuilder(uow, promptmod.WithSession(uow))
		p, err := b.BuildPrompt(ctx, in)
		if err != nil {
			return err
		}
		built = p
		return nil
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	observability.Current().IncPromptCreated(len(built.Versions))
	s.log.Info("prompt created", "prompt_id", built.ID, "owner_id", scope, "versions", len(built.Versions))
	return s.detail(ctx, built, built.PrimaryVersion()), nil
}

// CreateVersion appends a new immutable version to an existing prompt of the scope.
func (s *promptService) CreateVersion(ctx context.Context, actorID, scope, promptID int64, in *promptmod.VersionInput) (*PromptDetail, error) {
	ctx, span := startSpan(ctx, "PromptService.CreateVersion", scope)
	defer span.End()
	span.SetAttributes(attribute.Int64("prompt.id", promptID))

	if err := requireScope(opCreateVersion, scope); err != nil {
		return nil, endSpan(span, err)
	}
	if in == nil {
		return nil, endSpan(span, domainagg.ValidationError(opCreateVersion, domainagg.Violation{Field: "body", Rule: "required", Message: "payload is required"}))
	}
	in.SetAuthorID(actorID)
	if err := in.Validate(); err != nil {
		return nil, endSpan(span, err)
	}

	var (
		parent *types.Prompt
		built  *types.PromptVersion
	)
	err := s.writer.Write(ctx, opCreateVersion, func(uow *dataagg.UnitOfWork) error {
		p, err := s.prompts.GetByID(dbctx.Context{Ctx: ctx, Tx: uow.Tx()}, scope, promptID)
		if err != nil {
			return err
		}
		v, err := promptmod.NewBuilder(uow, promptmod.WithSession(uow)).BuildVersion(ctx, in, p)
		if err != nil {
			return err
		}
		parent, built = p, v
		return nil
	})
	if err != nil {
		return nil, endSpan(span, err)
	}
	observability.Current().IncVersionCreated()
	s.log.Info("prompt version created", "prompt_id", parent.ID, "version_id", built.ID, "owner_id", scope)
	return s.detail(ctx, parent, built), nil
}

func (s *promptService) List(ctx context.Context, scope int64, params ListParams) (*PromptPage, error) {
	ctx, span := startSpan(ctx, "PromptService.List", scope)
	defer span.End()

	if err := requireScope(opListPrompts, scope); err != nil {
		return nil, endSpan(span, err)
	}
	params, err := normalizeListParams(params)
	if err != nil {
		return nil, endSpan(span, err)
	}

	rows, total, err := s.prompts.ListPage(dbctx.Context{Ctx: ctx}, repos.PromptPageQuery{
		OwnerID:   scope,
		TagIDs:    params.TagIDs,
		Limit:     params.Limit,
		Offset:    params.Offset,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		return nil, endSpan(span, dataagg.MapError(opListPrompts, err))
	}
	summaries, err := promptmod.Aggregate(ctx, rows, s.lookup)
	if err != nil {
		return nil, endSpan(span, err)
	}
	span.SetAttributes(attribute.Int("prompts.rows", len(summaries)), attribute.Int64("prompts.total", total))
	return &PromptPage{Rows: summaries, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// Get reads a prompt through its latest version.
func (s *promptService) Get(ctx context.Context, scope, id int64) (*PromptDetail, error) {
	ctx, span := startSpan(ctx, "PromptService.Get", scope)
	defer span.End()

	if err := requireScope(opGetPrompt, scope); err != nil {
		return nil, endSpan(span, err)
	}
	p, err := s.prompts.GetByID(dbctx.Context{Ctx: ctx}, scope, id)
	if err != nil {
		return nil, endSpan(span, dataagg.MapError(opGetPrompt, err))
	}
	return s.detail(ctx, p, p.LatestVersion()), nil
}

func (s *promptService) ListTags(ctx context.Context, scope int64) ([]*types.PromptTag, error) {
	ctx, span := startSpan(ctx, "PromptService.ListTags", scope)
	defer span.End()

	if err := requireScope(opListTags, scope); err != nil {
		return nil, endSpan(span, err)
	}
	tags, err := s.tags.ListByOwner(dbctx.Context{Ctx: ctx}, scope)
	if err != nil {
		return nil, endSpan(span, dataagg.MapError(opListTags, err))
	}
	return tags, nil
}

// detail resolves the version's author. The write has already happened, so a failed lookup
// degrades to the bare id instead of failing the request.
func (s *promptService) detail(ctx context.Context, p *types.Prompt, v *types.PromptVersion) *PromptDetail {
	d := &PromptDetail{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		OwnerID:      p.OwnerID,
		CreatedAt:    p.CreatedAt,
		VersionCount: len(p.Versions),
		Version:      v,
	}
	if v == nil {
		return d
	}
	author := types.Author{ID: v.AuthorID}
	if s.lookup != nil && v.AuthorID > 0 {
		found, err := s.lookup.Resolve(ctx, []int64{v.AuthorID})
		if err != nil {
			s.log.Warn("author lookup failed", "author_id", v.AuthorID, "error", err)
		} else if a, ok := found[v.AuthorID]; ok {
			author = a
			author.ID = v.AuthorID
		}
	}
	d.Author = pointers.Ptr(author)
	return d
}

func normalizeListParams(p ListParams) (ListParams, error) {
	var violations []domainagg.Violation
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		violations = append(violations, domainagg.Violation{Field: "offset", Rule: "min", Message: "must not be negative"})
	}
	p.SortBy = strings.ToLower(strings.TrimSpace(p.SortBy))
	switch p.SortBy {
	case "", "created_at", "name", "id":
	default:
		violations = append(violations, domainagg.Violation{Field: "sort_by", Rule: "oneof", Message: "must be one of created_at, name, id"})
	}
	p.SortOrder = strings.ToLower(strings.TrimSpace(p.SortOrder))
	switch p.SortOrder {
	case "", "asc", "desc":
	default:
		violations = append(violations, domainagg.Violation{Field: "sort_order", Rule: "oneof", Message: "must be asc or desc"})
	}
	if len(violations) > 0 {
		return p, domainagg.ValidationError(opListPrompts, violations...)
	}
	return p, nil
}

func requireScope(op string, scope int64) error {
	if scope <= 0 {
		return domainagg.ScopeResolutionError(op, "a positive project id is required")
	}
	return nil
}

func startSpan(ctx context.Context, name string, scope int64) (context.Context, trace.Span) {
	ctx, span := observability.Tracer().Start(ctx, name)
	span.SetAttributes(attribute.Int64("prompts.scope", scope))
	return ctx, span
}

func endSpan(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
	}
	return err
}
