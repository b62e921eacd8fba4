package prompts

import (
	"context"
	"strings"
	"sync"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
	"github.com/yungbote/promptlib-backend/internal/observability"
)

const opReconcile = "prompts.reconcile_tags"

// TagSet is the reconciler's result: requested names mapped to a single tag instance each, in
// first-seen order.
type TagSet struct {
	names  []string
	byName map[string]*types.PromptTag
	fresh  []*types.PromptTag
}

func (s *TagSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *TagSet) Get(name string) (*types.PromptTag, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.byName[name]
	return t, ok
}

// Ordered returns the tags in first-seen request order.
func (s *TagSet) Ordered() []*types.PromptTag {
	if s == nil {
		return []*types.PromptTag{}
	}
	out := make([]*types.PromptTag, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.byName[n])
	}
	return out
}

// Created returns the tags this reconciliation constructed and that still need persisting.
func (s *TagSet) Created() []*types.PromptTag {
	if s == nil {
		return nil
	}
	return s.fresh
}

// TagReconciler resolves requested tag names against the scope's existing tags so a name is
// never materialised twice within one scope.
type TagReconciler struct {
	finder TagFinder

	mu      sync.Mutex
	pending map[tagKey]*types.PromptTag
}

type tagKey struct {
	scope int64
	name  string
}

func NewTagReconciler(finder TagFinder) *TagReconciler {
	return &TagReconciler{finder: finder, pending: map[tagKey]*types.PromptTag{}}
}

// Reconcile performs one batched lookup for the distinct requested names. Found names map to the
// stored tag untouched; missing names map to a new unpersisted tag built from the first
// occurrence's data. Tags this reconciler created earlier are returned again instead of being
// rebuilt, so repeated calls in one unit of work share identity even before anything is flushed.
func (r *TagReconciler) Reconcile(ctx context.Context, scope int64, requested []*TagInput) (*TagSet, error) {
	set := &TagSet{byName: map[string]*types.PromptTag{}}
	if len(requested) == 0 {
		return set, nil
	}
	if scope <= 0 {
		return nil, domainagg.ScopeResolutionError(opReconcile, "tag reconciliation requires an owning scope")
	}
	if r == nil || r.finder == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, opReconcile, "reconciler has no tag finder", nil)
	}

	firstSeen := map[string]*TagInput{}
	for _, t := range requested {
		if t == nil {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, domainagg.ValidationError(opReconcile, domainagg.Violation{Field: "tags.name", Rule: "required", Message: "is required"})
		}
		if _, ok := firstSeen[name]; ok {
			continue
		}
		firstSeen[name] = t
		set.names = append(set.names, name)
	}
	if len(set.names) == 0 {
		return set, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var lookup []string
	for _, name := range set.names {
		if t, ok := r.pending[tagKey{scope, name}]; ok {
			set.byName[name] = t
			continue
		}
		lookup = append(lookup, name)
	}
	if len(lookup) > 0 {
		existing, err := r.finder.FindTags(ctx, scope, lookup)
		if err != nil {
			return nil, err
		}
		r.adopt(set, scope, firstSeen, existing)
	}

	reused := len(set.byName)
	for _, name := range set.names {
		if _, ok := set.byName[name]; ok {
			continue
		}
		tag := &types.PromptTag{
			OwnerID: scope,
			Name:    name,
			Data:    jsonOrNil(firstSeen[name].Data),
		}
		set.byName[name] = tag
		set.fresh = append(set.fresh, tag)
		r.pending[tagKey{scope, name}] = tag
	}
	observability.RecordTagsReconciled(reused, len(set.fresh))
	return set, nil
}

func (r *TagReconciler) adopt(set *TagSet, scope int64, wanted map[string]*TagInput, existing []*types.PromptTag) {
	for _, t := range existing {
		if t == nil || t.OwnerID != scope {
			continue
		}
		if _, ok := wanted[t.Name]; ok {
			set.byName[t.Name] = t
		}
	}
}
