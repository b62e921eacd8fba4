package prompts

import "regexp"

// VariableNamePattern is the identifier shape accepted for variable names.
var VariableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type PromptVariable struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	PromptVersionID int64          `gorm:"column:prompt_version_id;not null;index" json:"prompt_version_id"`
	PromptVersion   *PromptVersion `gorm:"foreignKey:PromptVersionID;constraint:OnDelete:CASCADE" json:"-"`

	Name     string  `gorm:"column:name;not null" json:"name"`
	Value    *string `gorm:"column:value;type:text" json:"value,omitempty"`
	Position int     `gorm:"column:position;not null" json:"-"`
}

func (PromptVariable) TableName() string { return "prompt_variable" }
