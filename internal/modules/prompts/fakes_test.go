package prompts

import (
	"context"
	"sync"

	types "github.com/yungbote/promptlib-backend/internal/domain"
)

type fakeFinder struct {
	mu    sync.Mutex
	tags  []*types.PromptTag
	calls [][]string
	err   error
}

func (f *fakeFinder) FindTags(ctx context.Context, scope int64, names []string) ([]*types.PromptTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), names...))
	if f.err != nil {
		return nil, f.err
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	var out []*types.PromptTag
	for _, t := range f.tags {
		if t.OwnerID == scope && want[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

type recordingSession struct {
	entities []any
}

func (s *recordingSession) Register(entity any) { s.entities = append(s.entities, entity) }

func (s *recordingSession) count(match func(any) bool) int {
	n := 0
	for _, e := range s.entities {
		if match(e) {
			n++
		}
	}
	return n
}

type fakeLookup struct {
	calls   [][]int64
	authors map[int64]types.Author
	err     error
}

func (f *fakeLookup) Resolve(ctx context.Context, ids []int64) (map[int64]types.Author, error) {
	f.calls = append(f.calls, append([]int64(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := map[int64]types.Author{}
	for _, id := range ids {
		if a, ok := f.authors[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}
