package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/promptlib-backend/internal/data/repos"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"github.com/yungbote/promptlib-backend/internal/platform/dbctx"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}

// PromptWriter runs prompt-graph writes: fn stages entities into a fresh UnitOfWork and the
// writer commits them atomically.
type PromptWriter interface {
	domainagg.Aggregate
	Write(ctx context.Context, op string, fn func(uow *UnitOfWork) error) error
}

type PromptWriterDeps struct {
	Base BaseDeps

	Prompts  repos.PromptRepo
	Versions repos.PromptVersionRepo
	Tags     repos.PromptTagRepo
}

type promptWriter struct {
	deps PromptWriterDeps
}

func NewPromptWriter(deps PromptWriterDeps) PromptWriter {
	deps.Base = deps.Base.withDefaults()
	r := UnitOfWorkRepos{Prompts: deps.Prompts, Versions: deps.Versions, Tags: deps.Tags}.withDefaults(deps.Base.DB, deps.Base.Log)
	deps.Prompts, deps.Versions, deps.Tags = r.Prompts, r.Versions, r.Tags
	return &promptWriter{deps: deps}
}

func (w *promptWriter) Contract() domainagg.Contract {
	return domainagg.PromptGraphContract
}

func (w *promptWriter) Write(ctx context.Context, op string, fn func(uow *UnitOfWork) error) error {
	return executeWrite(ctx, w.deps.Base, op, func(dbc dbctx.Context) error {
		uow := NewUnitOfWork(dbc, w.deps.Base.Log, UnitOfWorkRepos{
			Prompts:  w.deps.Prompts,
			Versions: w.deps.Versions,
			Tags:     w.deps.Tags,
		})
		if err := fn(uow); err != nil {
			return err
		}
		return uow.Commit()
	})
}
