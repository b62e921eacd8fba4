package aggregates

import (
	"context"
	"fmt"

	"github.com/yungbote/promptlib-backend/internal/data/repos"
	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"gorm.io/gorm"
)

const opCommit = "aggregate.unit_of_work.commit"

// UnitOfWork stages a prompt graph inside one transaction. It answers tag lookups from its own
// staged tags before the database, so a name reconciled twice resolves to one instance.
type UnitOfWork struct {
	dbc   dbctx.Context
	log   *logger.Logger
	repos UnitOfWorkRepos

	seen      map[any]struct{}
	tags      []*types.PromptTag
	prompts   []*types.Prompt
	versions  []*types.PromptVersion
	variables []*types.PromptVariable
	messages  []*types.PromptMessage

	committed bool
}

// UnitOfWorkRepos are the repos a unit of work reads and writes through. Every call runs on the
// unit's transaction.
type UnitOfWorkRepos struct {
	Prompts  repos.PromptRepo
	Versions repos.PromptVersionRepo
	Tags     repos.PromptTagRepo
}

func (r UnitOfWorkRepos) withDefaults(db *gorm.DB, log *logger.Logger) UnitOfWorkRepos {
	if r.Prompts == nil {
		r.Prompts = repos.NewPromptRepo(db, log)
	}
	if r.Versions == nil {
		r.Versions = repos.NewPromptVersionRepo(db, log)
	}
	if r.Tags == nil {
		r.Tags = repos.NewPromptTagRepo(db, log)
	}
	return r
}

func NewUnitOfWork(dbc dbctx.Context, log *logger.Logger, r UnitOfWorkRepos) *UnitOfWork {
	if log == nil {
		log = logger.Nop()
	}
	if dbc.Ctx == nil {
		dbc.Ctx = context.Background()
	}
	return &UnitOfWork{
		dbc:   dbc,
		log:   log.With("component", "UnitOfWork"),
		repos: r.withDefaults(dbc.Tx, log),
		seen:  map[any]struct{}{},
	}
}

// Tx exposes the transaction so repos can read inside the same boundary.
func (u *UnitOfWork) Tx() *gorm.DB { return u.dbc.Tx }

// FindTags returns the scope's tags named in names: staged ones first, the rest from storage in
// a single query.
func (u *UnitOfWork) FindTags(ctx context.Context, scope int64, names []string) ([]*types.PromptTag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	var out []*types.PromptTag
	for _, t := range u.tags {
		if t.OwnerID != scope {
			continue
		}
		if _, ok := want[t.Name]; ok {
			out = append(out, t)
			delete(want, t.Name)
		}
	}
	if len(want) == 0 {
		return out, nil
	}
	if u.dbc.Tx == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, "aggregate.unit_of_work.find_tags", "unit of work has no transaction", nil)
	}
	rest := make([]string, 0, len(want))
	for _, n := range names {
		if _, ok := want[n]; ok {
			rest = append(rest, n)
		}
	}
	stored, err := u.repos.Tags.GetByOwnerAndNames(dbctx.Context{Ctx: ctx, Tx: u.dbc.Tx}, scope, rest)
	if err != nil {
		return nil, MapError("aggregate.unit_of_work.find_tags", err)
	}
	return append(out, stored...), nil
}

// Register stages a newly built entity. Already persisted rows and repeats are ignored.
func (u *UnitOfWork) Register(entity any) {
	if entity == nil {
		return
	}
	if _, dup := u.seen[entity]; dup {
		return
	}
	switch e := entity.(type) {
	case *types.PromptTag:
		if e.Persisted() {
			return
		}
		u.tags = append(u.tags, e)
	case *types.Prompt:
		if e.ID != 0 {
			return
		}
		u.prompts = append(u.prompts, e)
	case *types.PromptVersion:
		u.versions = append(u.versions, e)
	case *types.PromptVariable:
		u.variables = append(u.variables, e)
	case *types.PromptMessage:
		u.messages = append(u.messages, e)
	default:
		u.log.Warn("ignoring unknown entity registration", "type", typeName(entity))
		return
	}
	u.seen[entity] = struct{}{}
}

// Staged reports how many entities are waiting for Commit.
func (u *UnitOfWork) Staged() int {
	return len(u.tags) + len(u.prompts) + len(u.versions) + len(u.variables) + len(u.messages)
}

// Commit writes everything staged in dependency order: tags, prompts, versions, variables,
// messages, then the version↔tag join rows. A unit of work commits once.
func (u *UnitOfWork) Commit() error {
	if u.committed {
		return domainagg.NewError(domainagg.CodeInternal, opCommit, "unit of work already committed", nil)
	}
	u.committed = true
	if u.Staged() == 0 {
		return nil
	}
	if u.dbc.Tx == nil {
		return domainagg.NewError(domainagg.CodeInternal, opCommit, "unit of work has no transaction", nil)
	}
	dbc := u.dbc

	if _, err := u.repos.Tags.Create(dbc, u.tags); err != nil {
		return MapError(opCommit, err)
	}
	if _, err := u.repos.Prompts.Create(dbc, u.prompts); err != nil {
		return MapError(opCommit, err)
	}
	for _, v := range u.versions {
		if v.Prompt != nil {
			v.PromptID = v.Prompt.ID
		}
	}
	if _, err := u.repos.Versions.Create(dbc, u.versions); err != nil {
		return MapError(opCommit, err)
	}
	for _, pv := range u.variables {
		if pv.PromptVersion != nil {
			pv.PromptVersionID = pv.PromptVersion.ID
		}
	}
	if _, err := u.repos.Versions.CreateVariables(dbc, u.variables); err != nil {
		return MapError(opCommit, err)
	}
	for _, m := range u.messages {
		if m.PromptVersion != nil {
			m.PromptVersionID = m.PromptVersion.ID
		}
	}
	if _, err := u.repos.Versions.CreateMessages(dbc, u.messages); err != nil {
		return MapError(opCommit, err)
	}

	links := 0
	for _, v := range u.versions {
		if err := u.repos.Versions.LinkTags(dbc, v.ID, v.Tags); err != nil {
			return MapError(opCommit, err)
		}
		links += len(v.Tags)
	}
	u.log.Debug("unit of work committed",
		"tags", len(u.tags),
		"prompts", len(u.prompts),
		"versions", len(u.versions),
		"links", links,
	)
	return nil
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
