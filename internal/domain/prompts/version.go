package prompts

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type PromptVersionType string

const (
	PromptVersionTypeChat       PromptVersionType = "chat"
	PromptVersionTypeCompletion PromptVersionType = "completion"
	PromptVersionTypeStructured PromptVersionType = "structured"
	PromptVersionTypeFreeform   PromptVersionType = "freeform"
)

// PromptVersionTypes lists the closed set of version types.
var PromptVersionTypes = []PromptVersionType{
	PromptVersionTypeChat,
	PromptVersionTypeCompletion,
	PromptVersionTypeStructured,
	PromptVersionTypeFreeform,
}

// Normalize folds case so "CHAT" and "chat" name the same type.
func (t PromptVersionType) Normalize() PromptVersionType {
	return PromptVersionType(strings.ToLower(strings.TrimSpace(string(t))))
}

func (t PromptVersionType) Valid() bool {
	n := t.Normalize()
	for _, v := range PromptVersionTypes {
		if v == n {
			return true
		}
	}
	return false
}

const DefaultVersionName = "latest"

// PromptVersion is immutable once created. Variables and messages are owned; tags are shared
// references into the owner's tag namespace.
type PromptVersion struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	PromptID int64   `gorm:"column:prompt_id;not null;index" json:"prompt_id"`
	Prompt   *Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`

	Name              string            `gorm:"column:name;not null" json:"name"`
	CommitMessage     *string           `gorm:"column:commit_message;type:text" json:"commit_message,omitempty"`
	AuthorID          int64             `gorm:"column:author_id;not null;index" json:"author_id"`
	Context           *string           `gorm:"column:context;type:text" json:"context,omitempty"`
	EmbeddingSettings datatypes.JSON    `gorm:"column:embedding_settings;type:jsonb" json:"embedding_settings,omitempty"`
	ModelSettings     datatypes.JSON    `gorm:"column:model_settings;type:jsonb" json:"model_settings,omitempty"`
	Type              PromptVersionType `gorm:"column:type;not null;type:varchar(32)" json:"type"`
	Position          int               `gorm:"column:position;not null" json:"-"`

	Variables []*PromptVariable `gorm:"foreignKey:PromptVersionID;constraint:OnDelete:CASCADE" json:"variables"`
	Messages  []*PromptMessage  `gorm:"foreignKey:PromptVersionID;constraint:OnDelete:CASCADE" json:"messages"`
	Tags      []*PromptTag      `gorm:"many2many:prompt_version_tags;joinForeignKey:PromptVersionID;joinReferences:PromptTagID" json:"tags"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PromptVersion) TableName() string { return "prompt_version" }

// NewPromptVersion returns a version carrying entity defaults. Builders start here and apply only
// the fields a payload explicitly set.
func NewPromptVersion() *PromptVersion {
	return &PromptVersion{
		Name:      DefaultVersionName,
		Type:      PromptVersionTypeChat,
		Variables: []*PromptVariable{},
		Messages:  []*PromptMessage{},
		Tags:      []*PromptTag{},
	}
}

// AddVariable attaches an owned variable in sequence.
func (v *PromptVersion) AddVariable(pv *PromptVariable) {
	if v == nil || pv == nil {
		return
	}
	pv.PromptVersion = v
	pv.Position = len(v.Variables)
	v.Variables = append(v.Variables, pv)
}

// AddMessage attaches an owned message; sequence is significant downstream.
func (v *PromptVersion) AddMessage(m *PromptMessage) {
	if v == nil || m == nil {
		return
	}
	m.PromptVersion = v
	m.Position = len(v.Messages)
	v.Messages = append(v.Messages, m)
}

// Scope resolves the owning scope through the prompt edge.
func (v *PromptVersion) Scope() (int64, bool) {
	if v == nil || v.Prompt == nil {
		return 0, false
	}
	return v.Prompt.OwnerID, true
}

// PromptVersionTag is the join row of the shared version↔tag reference edge. Position keeps the
// version's tag order.
type PromptVersionTag struct {
	PromptVersionID int64 `gorm:"column:prompt_version_id;primaryKey"`
	PromptTagID     int64 `gorm:"column:prompt_tag_id;primaryKey;index"`
	Position        int   `gorm:"column:position;not null;default:0"`
}

func (PromptVersionTag) TableName() string { return "prompt_version_tags" }
