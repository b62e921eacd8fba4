package prompts

import (
	"time"

	"gorm.io/datatypes"
)

// PromptTag is shared across versions and prompts of one scope. (owner_id, name) is unique.
type PromptTag struct {
	ID      int64          `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	OwnerID int64          `gorm:"column:owner_id;not null;uniqueIndex:idx_prompt_tag_owner_name" json:"-"`
	Name    string         `gorm:"column:name;not null;uniqueIndex:idx_prompt_tag_owner_name" json:"name"`
	Data    datatypes.JSON `gorm:"column:data;type:jsonb" json:"data,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (PromptTag) TableName() string { return "prompt_tag" }

// Persisted reports whether the tag row already exists in storage.
func (t *PromptTag) Persisted() bool { return t != nil && t.ID != 0 }
