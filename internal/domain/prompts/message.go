package prompts

import (
	"strings"

	"gorm.io/datatypes"
)

type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleFunction  MessageRole = "function"
	MessageRoleTool      MessageRole = "tool"
)

var MessageRoles = []MessageRole{
	MessageRoleSystem,
	MessageRoleUser,
	MessageRoleAssistant,
	MessageRoleFunction,
	MessageRoleTool,
}

func (r MessageRole) Normalize() MessageRole {
	return MessageRole(strings.ToLower(strings.TrimSpace(string(r))))
}

func (r MessageRole) Valid() bool {
	n := r.Normalize()
	for _, v := range MessageRoles {
		if v == n {
			return true
		}
	}
	return false
}

type PromptMessage struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	PromptVersionID int64          `gorm:"column:prompt_version_id;not null;index" json:"prompt_version_id"`
	PromptVersion   *PromptVersion `gorm:"foreignKey:PromptVersionID;constraint:OnDelete:CASCADE" json:"-"`

	Role          MessageRole    `gorm:"column:role;not null;type:varchar(32)" json:"role"`
	Name          *string        `gorm:"column:name" json:"name,omitempty"`
	Content       *string        `gorm:"column:content;type:text" json:"content,omitempty"`
	CustomContent datatypes.JSON `gorm:"column:custom_content;type:jsonb" json:"custom_content,omitempty"`
	Position      int            `gorm:"column:position;not null" json:"-"`
}

func (PromptMessage) TableName() string { return "prompt_message" }
