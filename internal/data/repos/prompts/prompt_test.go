package prompts

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/promptlib-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
)

func TestPromptRepoGetByID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPromptRepo(db, testutil.Logger(t))

	scope := testutil.Scope()
	demo := testutil.SeedTag(t, ctx, tx, scope, "demo")
	seeded := testutil.SeedPrompt(t, ctx, tx, scope, "greet", []int64{42, 7}, demo)

	got, err := repo.GetByID(dbc, scope, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "greet" || len(got.Versions) != 2 {
		t.Fatalf("prompt: got name=%q versions=%d", got.Name, len(got.Versions))
	}
	if got.Versions[0].AuthorID != 42 || got.Versions[1].AuthorID != 7 {
		t.Fatalf("version order: got authors %d,%d want 42,7", got.Versions[0].AuthorID, got.Versions[1].AuthorID)
	}
	v := got.Versions[0]
	if v.Prompt != got || len(v.Messages) != 1 || v.Messages[0].PromptVersion != v {
		t.Fatalf("graph edges not restored")
	}
	if len(v.Tags) != 1 || v.Tags[0].ID != demo.ID {
		t.Fatalf("tags: got=%+v", v.Tags)
	}

	if _, err := repo.GetByID(dbc, scope+1, seeded.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("other scope: got=%v want ErrRecordNotFound", err)
	}
}

func TestPromptRepoListPage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPromptRepo(db, testutil.Logger(t))

	scope := testutil.Scope()
	alpha := testutil.SeedTag(t, ctx, tx, scope, "alpha")
	beta := testutil.SeedTag(t, ctx, tx, scope, "beta")
	testutil.SeedPrompt(t, ctx, tx, scope, "b-prompt", []int64{1}, alpha)
	testutil.SeedPrompt(t, ctx, tx, scope, "a-prompt", []int64{1, 2}, alpha, beta)
	testutil.SeedPrompt(t, ctx, tx, scope, "c-prompt", []int64{3})
	testutil.SeedPrompt(t, ctx, tx, testutil.Scope(), "elsewhere", []int64{1})

	rows, total, err := repo.ListPage(dbc, PageQuery{OwnerID: scope, SortBy: "name", SortOrder: "asc", Limit: 2})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("page: got total=%d rows=%d want 3/2", total, len(rows))
	}
	if rows[0].Name != "a-prompt" || rows[1].Name != "b-prompt" {
		t.Fatalf("order: got %q,%q", rows[0].Name, rows[1].Name)
	}
	if len(rows[0].Versions) != 2 || len(rows[0].Versions[0].Tags) != 2 {
		t.Fatalf("graph not preloaded: %+v", rows[0].Versions)
	}

	rows, total, err = repo.ListPage(dbc, PageQuery{OwnerID: scope, SortBy: "name", SortOrder: "asc", Offset: 2})
	if err != nil || total != 3 || len(rows) != 1 || rows[0].Name != "c-prompt" {
		t.Fatalf("offset page: err=%v total=%d rows=%d", err, total, len(rows))
	}

	rows, total, err = repo.ListPage(dbc, PageQuery{OwnerID: scope, TagIDs: []int64{beta.ID}})
	if err != nil || total != 1 || len(rows) != 1 || rows[0].Name != "a-prompt" {
		t.Fatalf("tag filter: err=%v total=%d rows=%d", err, total, len(rows))
	}

	if _, _, err := repo.ListPage(dbc, PageQuery{OwnerID: scope, SortBy: "password"}); err == nil {
		t.Fatalf("expected unsupported sort_by error")
	}
}

func TestPromptRepoCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPromptRepo(db, testutil.Logger(t))

	p := &types.Prompt{Name: "fresh", OwnerID: testutil.Scope()}
	out, err := repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, []*types.Prompt{p})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(out) != 1 || out[0].ID == 0 {
		t.Fatalf("Create did not assign an id")
	}
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		by, order, want string
	}{
		{"", "", "prompt.created_at DESC"},
		{"name", "asc", "prompt.name ASC"},
		{"ID", "DESC", "prompt.id DESC"},
	}
	for _, c := range cases {
		got, err := orderClause(c.by, c.order)
		if err != nil || got != c.want {
			t.Fatalf("orderClause(%q,%q): got=%q err=%v want=%q", c.by, c.order, got, err, c.want)
		}
	}
	if _, err := orderClause("created_at", "sideways"); err == nil {
		t.Fatalf("expected sort_order error")
	}
}
