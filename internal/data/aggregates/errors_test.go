package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.ScopeResolutionError("op", "no scope")
	out := MapError("other", fmt.Errorf("wrapped: %w", in))
	if !domainagg.IsCode(out, domainagg.CodeScopeResolution) {
		t.Fatalf("expected passthrough aggregate error, got %v", out)
	}
}

func TestMapError_Postgres(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23503": domainagg.CodeNotFound,
		"40001": domainagg.CodeConflict,
		"42P01": domainagg.CodeInternal,
	}
	for code, want := range cases {
		err := MapError("op", fmt.Errorf("insert: %w", &pgconn.PgError{Code: code}))
		if !domainagg.IsCode(err, want) {
			t.Fatalf("pg %s: got %q want %q", code, domainagg.CodeOf(err), want)
		}
	}
}

func TestMapError_SQLiteMessages(t *testing.T) {
	err := MapError("op", errors.New("UNIQUE constraint failed: prompt_tag.owner_id, prompt_tag.name"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("unique: got %q", domainagg.CodeOf(err))
	}
	err = MapError("op", errors.New("FOREIGN KEY constraint failed"))
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("fk: got %q", domainagg.CodeOf(err))
	}
	err = MapError("op", context.Canceled)
	if !domainagg.IsCode(err, domainagg.CodeInternal) || !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: got %v", err)
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(errors.New("duplicate key value")); got != string(domainagg.CodeConflict) {
		t.Fatalf("conflict status: got=%s", got)
	}
	if got := aggregateErrorStatus(domainagg.ValidationError("op")); got != string(domainagg.CodeValidation) {
		t.Fatalf("validation status: got=%s", got)
	}
}
