package db

import (
	"testing"

	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

func TestSQLiteDSN(t *testing.T) {
	cases := map[string]string{
		"":                     "file::memory:?cache=shared&_foreign_keys=on",
		":memory:":             "file::memory:?cache=shared&_foreign_keys=on",
		"promptlib.db":         "promptlib.db?_foreign_keys=on",
		"x.db?_foreign_keys=0": "x.db?_foreign_keys=0",
	}
	for in, want := range cases {
		if got := sqliteDSN(in); got != want {
			t.Fatalf("sqliteDSN(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestAutoMigrateAllSQLite(t *testing.T) {
	svc, err := OpenSQLite(logger.Nop(), "file:migrate_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer svc.Close()
	if err := svc.AutoMigrateAll(); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, table := range []string{"prompt", "prompt_version", "prompt_variable", "prompt_message", "prompt_tag", "prompt_version_tags"} {
		if !svc.DB().Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	if !svc.DB().Migrator().HasIndex("prompt_tag", "idx_prompt_tag_owner_name") {
		t.Fatalf("missing unique tag index")
	}
}
