package prompts

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	types "github.com/yungbote/promptlib-backend/internal/domain"
)

// fieldSet records which keys a raw payload carried. A field that was sent as null or as an empty
// value is still present; only absent keys are unset.
type fieldSet map[string]struct{}

func (f fieldSet) has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f[name]
	return ok
}

func (f *fieldSet) mark(names ...string) {
	if *f == nil {
		*f = fieldSet{}
	}
	for _, n := range names {
		(*f)[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
}

func presentFields(data []byte) (fieldSet, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(fieldSet, len(raw))
	for k := range raw {
		out[strings.ToLower(k)] = struct{}{}
	}
	return out, nil
}

// PromptInput is the prompt-creation payload.
type PromptInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description *string         `json:"description"`
	OwnerID     int64           `json:"owner_id" validate:"gt=0"`
	Versions    []*VersionInput `json:"versions" validate:"dive,required"`

	fields fieldSet
}

func (in *PromptInput) UnmarshalJSON(data []byte) error {
	type alias PromptInput
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	fields, err := presentFields(data)
	if err != nil {
		return err
	}
	*in = PromptInput(a)
	in.fields = fields
	return nil
}

// Has reports whether the payload explicitly carried the named JSON field.
func (in *PromptInput) Has(name string) bool { return in != nil && in.fields.has(name) }

// Mark flags fields as explicitly set for inputs assembled in code.
func (in *PromptInput) Mark(names ...string) *PromptInput {
	in.fields.mark(names...)
	return in
}

// SetOwnerID stamps the owning scope and marks it present.
func (in *PromptInput) SetOwnerID(scope int64) {
	in.OwnerID = scope
	in.fields.mark("owner_id")
}

// VersionInput is the version payload.
type VersionInput struct {
	Name              string                  `json:"name" validate:"max=255"`
	CommitMessage     *string                 `json:"commit_message"`
	AuthorID          int64                   `json:"author_id" validate:"gt=0"`
	Context           *string                 `json:"context"`
	EmbeddingSettings datatypes.JSON          `json:"embedding_settings"`
	ModelSettings     datatypes.JSON          `json:"model_settings"`
	Type              types.PromptVersionType `json:"type" validate:"omitempty,version_type"`
	Variables         []*VariableInput        `json:"variables" validate:"dive,required"`
	Messages          []*MessageInput         `json:"messages" validate:"dive,required"`
	Tags              []*TagInput             `json:"tags" validate:"dive,required"`

	fields fieldSet
}

func (in *VersionInput) UnmarshalJSON(data []byte) error {
	type alias VersionInput
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	fields, err := presentFields(data)
	if err != nil {
		return err
	}
	*in = VersionInput(a)
	in.fields = fields
	return nil
}

func (in *VersionInput) Has(name string) bool { return in != nil && in.fields.has(name) }

func (in *VersionInput) Mark(names ...string) *VersionInput {
	in.fields.mark(names...)
	return in
}

// SetAuthorID stamps the acting user and marks it present.
func (in *VersionInput) SetAuthorID(id int64) {
	in.AuthorID = id
	in.fields.mark("author_id")
}

// VariableInput is the variable payload.
type VariableInput struct {
	Name  string  `json:"name" validate:"required,identifier"`
	Value *string `json:"value"`
}

// MessageInput is the message payload.
type MessageInput struct {
	Role          types.MessageRole `json:"role" validate:"required,message_role"`
	Name          *string           `json:"name"`
	Content       *string           `json:"content"`
	CustomContent datatypes.JSON    `json:"custom_content"`
}

// TagInput is the tag payload.
type TagInput struct {
	Name string         `json:"name" validate:"required,max=255"`
	Data datatypes.JSON `json:"data"`
}
