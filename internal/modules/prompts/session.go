package prompts

import (
	"context"

	types "github.com/yungbote/promptlib-backend/internal/domain"
)

// TagFinder is the batched tag lookup the reconciler depends on. Implementations must answer for
// the whole name set in one call.
type TagFinder interface {
	FindTags(ctx context.Context, scope int64, names []string) ([]*types.PromptTag, error)
}

// Session stages newly built entities for the enclosing unit of work.
type Session interface {
	Register(entity any)
}

// IdentityLookup resolves user ids to display records in one batched call. The result may be in
// any order and may omit unknown ids.
type IdentityLookup interface {
	Resolve(ctx context.Context, ids []int64) (map[int64]types.Author, error)
}
