package prompts

import (
	"context"
	"testing"

	"github.com/yungbote/promptlib-backend/internal/data/repos/testutil"
	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
)

func TestPromptTagRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPromptTagRepo(db, testutil.Logger(t))

	scope := testutil.Scope()
	if _, err := repo.Create(dbc, []*types.PromptTag{
		{OwnerID: scope, Name: "beta"},
		{OwnerID: scope, Name: "alpha"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByOwnerAndNames(dbc, scope, []string{"alpha", "missing"})
	if err != nil || len(rows) != 1 || rows[0].Name != "alpha" {
		t.Fatalf("GetByOwnerAndNames: err=%v rows=%d", err, len(rows))
	}
	if rows, err := repo.GetByOwnerAndNames(dbc, scope+1, []string{"alpha"}); err != nil || len(rows) != 0 {
		t.Fatalf("other scope: err=%v rows=%d", err, len(rows))
	}

	all, err := repo.ListByOwner(dbc, scope)
	if err != nil || len(all) != 2 || all[0].Name != "alpha" {
		t.Fatalf("ListByOwner: err=%v rows=%d", err, len(all))
	}
}

func TestPromptTagRepoUniquePerScope(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPromptTagRepo(db, testutil.Logger(t))

	scope := testutil.Scope()
	if _, err := repo.Create(dbc, []*types.PromptTag{{OwnerID: scope + 1, Name: "demo"}}); err != nil {
		t.Fatalf("Create other scope: %v", err)
	}
	if _, err := repo.Create(dbc, []*types.PromptTag{{OwnerID: scope, Name: "demo"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, []*types.PromptTag{{OwnerID: scope, Name: "demo"}}); err == nil {
		t.Fatalf("duplicate name in one scope must fail")
	}
}
