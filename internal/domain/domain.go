package domain

import "github.com/yungbote/promptlib-backend/internal/domain/prompts"

type Prompt = prompts.Prompt
type PromptVersion = prompts.PromptVersion
type PromptVersionTag = prompts.PromptVersionTag
type PromptVariable = prompts.PromptVariable
type PromptMessage = prompts.PromptMessage
type PromptTag = prompts.PromptTag
type Author = prompts.Author

type PromptVersionType = prompts.PromptVersionType
type MessageRole = prompts.MessageRole

const (
	DefaultVersionName = prompts.DefaultVersionName

	PromptVersionTypeChat       = prompts.PromptVersionTypeChat
	PromptVersionTypeCompletion = prompts.PromptVersionTypeCompletion
	PromptVersionTypeStructured = prompts.PromptVersionTypeStructured
	PromptVersionTypeFreeform   = prompts.PromptVersionTypeFreeform

	MessageRoleSystem    = prompts.MessageRoleSystem
	MessageRoleUser      = prompts.MessageRoleUser
	MessageRoleAssistant = prompts.MessageRoleAssistant
	MessageRoleFunction  = prompts.MessageRoleFunction
	MessageRoleTool      = prompts.MessageRoleTool
)

// VariableNamePattern is the identifier shape accepted for variable names.
var VariableNamePattern = prompts.VariableNamePattern

func NewPrompt() *Prompt               { return prompts.NewPrompt() }
func NewPromptVersion() *PromptVersion { return prompts.NewPromptVersion() }
