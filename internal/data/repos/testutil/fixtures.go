package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/promptlib-backend/internal/domain"
)

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, scope int64, name string) *types.PromptTag {
	tb.Helper()
	t := &types.PromptTag{OwnerID: scope, Name: name}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return t
}

// SeedPrompt writes a prompt with one version per author. Every version references tags.
func SeedPrompt(tb testing.TB, ctx context.Context, tx *gorm.DB, scope int64, name string, authors []int64, tags ...*types.PromptTag) *types.Prompt {
	tb.Helper()
	p := &types.Prompt{Name: name, OwnerID: scope}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		tb.Fatalf("seed prompt: %v", err)
	}
	for i, author := range authors {
		v := types.NewPromptVersion()
		v.PromptID = p.ID
		v.AuthorID = author
		v.Position = i
		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(v).Error; err != nil {
			tb.Fatalf("seed version: %v", err)
		}
		content := "hello"
		m := &types.PromptMessage{PromptVersionID: v.ID, Role: types.MessageRoleUser, Content: &content}
		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
			tb.Fatalf("seed message: %v", err)
		}
		for j, t := range tags {
			link := &types.PromptVersionTag{PromptVersionID: v.ID, PromptTagID: t.ID, Position: j}
			if err := tx.WithContext(ctx).Create(link).Error; err != nil {
				tb.Fatalf("seed version tag: %v", err)
			}
		}
		v.Tags = tags
		v.Messages = []*types.PromptMessage{m}
		p.Versions = append(p.Versions, v)
	}
	return p
}
