package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/promptlib-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/promptlib-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/promptlib-backend/internal/data/repos"
	"github.com/yungbote/promptlib-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
)

func TestPromptWriterObservesStatus(t *testing.T) {
	hooks := &aggtest.HooksRecorder{}
	runner := &aggtest.InjectedTxRunner{}
	w := aggregates.NewPromptWriter(aggregates.PromptWriterDeps{Base: aggregates.BaseDeps{Runner: runner, Hooks: hooks}})

	if err := w.Write(context.Background(), "prompts.noop", func(*aggregates.UnitOfWork) error { return nil }); err != nil {
		t.Fatalf("empty write: %v", err)
	}
	err := w.Write(context.Background(), "prompts.fail", func(*aggregates.UnitOfWork) error {
		return errors.New("UNIQUE constraint failed: prompt_tag.owner_id, prompt_tag.name")
	})
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("got=%v want=conflict", err)
	}
	if got := hooks.Statuses(); len(got) != 2 || got[0] != "success" || got[1] != "conflict" {
		t.Fatalf("statuses: got=%v", got)
	}
	if len(hooks.Conflicts) != 1 || hooks.Conflicts[0] != "prompts.fail" {
		t.Fatalf("conflicts: got=%v", hooks.Conflicts)
	}
	if runner.CommitCalls != 1 || runner.RollbackCalls != 1 {
		t.Fatalf("runner: commit=%d rollback=%d", runner.CommitCalls, runner.RollbackCalls)
	}
}

func TestPromptWriterCommitFailurePropagates(t *testing.T) {
	commitErr := errors.New("commit failed")
	w := aggregates.NewPromptWriter(aggregates.PromptWriterDeps{Base: aggregates.BaseDeps{Runner: &aggtest.InjectedTxRunner{FailCommit: commitErr}}})
	err := w.Write(context.Background(), "prompts.create", func(*aggregates.UnitOfWork) error { return nil })
	if !errors.Is(err, commitErr) || !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("got=%v", err)
	}
}

func TestPromptWriterContract(t *testing.T) {
	c := aggregates.NewPromptWriter(aggregates.PromptWriterDeps{Base: aggregates.BaseDeps{Runner: &aggtest.InjectedTxRunner{}}}).Contract()
	if c.Name != domainagg.PromptGraphContract.Name || !c.RequiresAggregateOwnedTx() {
		t.Fatalf("contract: got=%+v", c)
	}
	if c.ReadPolicy != domainagg.ReadPolicyInvariantScoped {
		t.Fatalf("read policy: got=%q", c.ReadPolicy)
	}
}

func uowRepos(t *testing.T, tx *gorm.DB) aggregates.UnitOfWorkRepos {
	t.Helper()
	log := testutil.Logger(t)
	return aggregates.UnitOfWorkRepos{
		Prompts:  repos.NewPromptRepo(tx, log),
		Versions: repos.NewPromptVersionRepo(tx, log),
		Tags:     repos.NewPromptTagRepo(tx, log),
	}
}

func stagedGraph(scope int64, tags ...*types.PromptTag) *types.Prompt {
	p := types.NewPrompt()
	p.Name = "greet"
	p.OwnerID = scope
	v := types.NewPromptVersion()
	v.AuthorID = 42
	v.Tags = tags
	content := "hi"
	v.AddMessage(&types.PromptMessage{Role: types.MessageRoleSystem, Content: &content})
	v.AddVariable(&types.PromptVariable{Name: "who"})
	p.AddVersion(v)
	return p
}

func register(uow *aggregates.UnitOfWork, p *types.Prompt) {
	uow.Register(p)
	for _, v := range p.Versions {
		uow.Register(v)
		for _, t := range v.Tags {
			uow.Register(t)
		}
		for _, m := range v.Messages {
			uow.Register(m)
		}
		for _, pv := range v.Variables {
			uow.Register(pv)
		}
	}
}

func TestUnitOfWorkCommitWritesGraph(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	uow := aggregates.NewUnitOfWork(dbctx.Context{Ctx: ctx, Tx: tx}, testutil.Logger(t), uowRepos(t, tx))

	scope := testutil.Scope()
	demo := &types.PromptTag{OwnerID: scope, Name: "demo"}
	p := stagedGraph(scope, demo)
	register(uow, p)
	register(uow, p)
	if uow.Staged() != 5 {
		t.Fatalf("staged: got=%d want=5", uow.Staged())
	}

	found, err := uow.FindTags(ctx, scope, []string{"demo"})
	if err != nil || len(found) != 1 || found[0] != demo {
		t.Fatalf("staged tag not visible: err=%v found=%v", err, found)
	}

	if err := uow.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if p.ID == 0 || p.Versions[0].PromptID != p.ID || demo.ID == 0 {
		t.Fatalf("ids not assigned")
	}
	if p.Versions[0].Messages[0].PromptVersionID != p.Versions[0].ID {
		t.Fatalf("message not linked to version")
	}

	var links int64
	if err := tx.Model(&types.PromptVersionTag{}).Where("prompt_version_id = ?", p.Versions[0].ID).Count(&links).Error; err != nil || links != 1 {
		t.Fatalf("links: err=%v count=%d", err, links)
	}
	if err := uow.Commit(); !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("second commit: got=%v want internal", err)
	}

	next := aggregates.NewUnitOfWork(dbctx.Context{Ctx: ctx, Tx: tx}, testutil.Logger(t), uowRepos(t, tx))
	found, err = next.FindTags(ctx, scope, []string{"demo", "other"})
	if err != nil || len(found) != 1 || found[0].ID != demo.ID {
		t.Fatalf("persisted tag lookup: err=%v found=%v", err, found)
	}
}

func TestUnitOfWorkTagRaceSurfacesConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	uow := aggregates.NewUnitOfWork(dbctx.Context{Ctx: ctx, Tx: tx}, testutil.Logger(t), uowRepos(t, tx))

	scope := testutil.Scope()
	found, err := uow.FindTags(ctx, scope, []string{"beta"})
	if err != nil || len(found) != 0 {
		t.Fatalf("FindTags: err=%v found=%d", err, len(found))
	}
	register(uow, stagedGraph(scope, &types.PromptTag{OwnerID: scope, Name: "beta"}))

	// A concurrent writer commits the same name first.
	testutil.SeedTag(t, ctx, tx, scope, "beta")

	if err := uow.Commit(); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("got=%v want=conflict", err)
	}
}
