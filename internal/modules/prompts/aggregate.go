package prompts

import (
	"context"
	"sort"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
)

const opAggregate = "prompts.aggregate"

type TagSummary struct {
	ID   int64          `json:"id"`
	Name string         `json:"name"`
	Data datatypes.JSON `json:"data,omitempty"`
}

// PromptSummary is one listing row.
type PromptSummary struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	OwnerID     int64          `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Tags        []TagSummary   `json:"tags"`
	Authors     []types.Author `json:"authors"`

	authorIDs []int64
}

// Aggregate summarises a page of prompts loaded with their versions and tags. Authors across the
// whole page are resolved with a single lookup call, which is skipped when no version names an
// author. A lookup failure fails the whole page.
func Aggregate(ctx context.Context, page []*types.Prompt, lookup IdentityLookup) ([]PromptSummary, error) {
	summaries := make([]PromptSummary, 0, len(page))
	global := map[int64]struct{}{}
	var globalIDs []int64

	for _, p := range page {
		if p == nil {
			continue
		}
		s := PromptSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			OwnerID:     p.OwnerID,
			CreatedAt:   p.CreatedAt,
			Tags:        []TagSummary{},
			Authors:     []types.Author{},
		}
		tagIdx := map[string]int{}
		seen := map[int64]struct{}{}
		for _, v := range p.Versions {
			if v == nil {
				continue
			}
			for _, t := range v.Tags {
				if t == nil {
					continue
				}
				ts := TagSummary{ID: t.ID, Name: t.Name, Data: t.Data}
				if i, ok := tagIdx[t.Name]; ok {
					s.Tags[i] = ts
					continue
				}
				tagIdx[t.Name] = len(s.Tags)
				s.Tags = append(s.Tags, ts)
			}
			if _, ok := seen[v.AuthorID]; !ok {
				seen[v.AuthorID] = struct{}{}
				s.authorIDs = append(s.authorIDs, v.AuthorID)
			}
			if _, ok := global[v.AuthorID]; !ok {
				global[v.AuthorID] = struct{}{}
				globalIDs = append(globalIDs, v.AuthorID)
			}
		}
		summaries = append(summaries, s)
	}

	resolved := map[int64]types.Author{}
	if len(globalIDs) > 0 {
		if lookup == nil {
			return nil, domainagg.NewError(domainagg.CodeInternal, opAggregate, "no identity lookup configured", nil)
		}
		sort.Slice(globalIDs, func(i, j int) bool { return globalIDs[i] < globalIDs[j] })
		got, err := lookup.Resolve(ctx, globalIDs)
		if err != nil {
			return nil, domainagg.Wrap(domainagg.CodeInternal, opAggregate, err)
		}
		resolved = got
	}

	for i := range summaries {
		s := &summaries[i]
		ids := s.authorIDs
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		for _, id := range ids {
			if a, ok := resolved[id]; ok {
				a.ID = id
				s.Authors = append(s.Authors, a)
				continue
			}
			s.Authors = append(s.Authors, types.Author{ID: id})
		}
		s.authorIDs = nil
	}
	return summaries, nil
}
