package prompts

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
)

const (
	opBuildVersion = "prompts.build_version"
	opBuildPrompt  = "prompts.build_prompt"
)

// Builder turns validated payloads into unpersisted entity graphs. A builder belongs to one unit
// of work: its reconciler remembers the tags it created.
type Builder struct {
	tags    *TagReconciler
	session Session
}

type BuilderOption func(*Builder)

// WithSession registers every newly constructed entity into s.
func WithSession(s Session) BuilderOption {
	return func(b *Builder) { b.session = s }
}

func NewBuilder(finder TagFinder, opts ...BuilderOption) *Builder {
	b := &Builder{tags: NewTagReconciler(finder)}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

type versionOptions struct {
	scope    int64
	hasScope bool
}

type VersionOption func(*versionOptions)

// WithScope supplies the tag scope for a version built without a parent prompt.
func WithScope(scope int64) VersionOption {
	return func(o *versionOptions) {
		o.scope = scope
		o.hasScope = true
	}
}

// BuildVersion constructs a version with its owned variables and messages and its reconciled tags.
// When parent is given the version is appended to it only after the whole version built cleanly.
func (b *Builder) BuildVersion(ctx context.Context, in *VersionInput, parent *types.Prompt, opts ...VersionOption) (*types.PromptVersion, error) {
	if in == nil {
		return nil, domainagg.ValidationError(opBuildVersion, domainagg.Violation{Field: "version", Rule: "required", Message: "is required"})
	}
	var vo versionOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&vo)
		}
	}

	v := types.NewPromptVersion()
	var violations []domainagg.Violation
	violations = append(violations, applyVersionScalars(v, in)...)

	// Scope must be reachable before sub-entities are built.
	if parent != nil {
		v.Prompt = parent
		v.PromptID = parent.ID
	}

	for i, vi := range in.Variables {
		if vi == nil {
			violations = append(violations, domainagg.Violation{Field: fmt.Sprintf("variables[%d]", i), Rule: "required", Message: "is required"})
			continue
		}
		if !types.VariableNamePattern.MatchString(vi.Name) {
			violations = append(violations, domainagg.Violation{
				Field:   fmt.Sprintf("variables[%d].name", i),
				Rule:    "identifier",
				Message: fmt.Sprintf("%q is not a valid variable name", vi.Name),
			})
			continue
		}
		v.AddVariable(&types.PromptVariable{Name: vi.Name, Value: vi.Value})
	}

	for i, mi := range in.Messages {
		if mi == nil {
			violations = append(violations, domainagg.Violation{Field: fmt.Sprintf("messages[%d]", i), Rule: "required", Message: "is required"})
			continue
		}
		role := mi.Role.Normalize()
		if !role.Valid() {
			violations = append(violations, domainagg.Violation{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Rule:    "message_role",
				Message: fmt.Sprintf("unrecognized message role %q", mi.Role),
			})
			continue
		}
		v.AddMessage(&types.PromptMessage{
			Role:          role,
			Name:          mi.Name,
			Content:       mi.Content,
			CustomContent: jsonOrNil(mi.CustomContent),
		})
	}

	if len(violations) > 0 {
		return nil, domainagg.ValidationError(opBuildVersion, violations...)
	}

	var created []*types.PromptTag
	if len(in.Tags) > 0 {
		scope, ok := resolveScope(v, vo)
		if !ok {
			return nil, domainagg.ScopeResolutionError(opBuildVersion, "version tags need a parent prompt or an explicit scope")
		}
		set, err := b.tags.Reconcile(ctx, scope, in.Tags)
		if err != nil {
			return nil, err
		}
		v.Tags = set.Ordered()
		created = set.Created()
	}

	if parent != nil {
		parent.AddVersion(v)
	}
	for _, t := range created {
		b.register(t)
	}
	b.register(v)
	for _, pv := range v.Variables {
		b.register(pv)
	}
	for _, m := range v.Messages {
		b.register(m)
	}
	return v, nil
}

// BuildPrompt constructs a prompt and every version in input order, each version inheriting the
// prompt's owner as its tag scope. The first failing version aborts the build; the caller's
// transaction discards whatever was registered.
func (b *Builder) BuildPrompt(ctx context.Context, in *PromptInput) (*types.Prompt, error) {
	if in == nil {
		return nil, domainagg.ValidationError(opBuildPrompt, domainagg.Violation{Field: "body", Rule: "required", Message: "payload is required"})
	}
	p := types.NewPrompt()
	if in.Has("name") {
		p.Name = in.Name
	}
	if in.Has("description") {
		p.Description = in.Description
	}
	if in.Has("owner_id") {
		p.OwnerID = in.OwnerID
	}

	b.register(p)
	for i, vi := range in.Versions {
		if _, err := b.BuildVersion(ctx, vi, p); err != nil {
			return nil, prefixViolations(err, fmt.Sprintf("versions[%d]", i))
		}
	}
	return p, nil
}

func (b *Builder) register(entities ...any) {
	if b == nil || b.session == nil {
		return
	}
	for _, e := range entities {
		if e != nil {
			b.session.Register(e)
		}
	}
}

func applyVersionScalars(v *types.PromptVersion, in *VersionInput) []domainagg.Violation {
	if in.Has("name") {
		v.Name = in.Name
	}
	if in.Has("commit_message") {
		v.CommitMessage = in.CommitMessage
	}
	if in.Has("author_id") {
		v.AuthorID = in.AuthorID
	}
	if in.Has("context") {
		v.Context = in.Context
	}
	if in.Has("embedding_settings") {
		v.EmbeddingSettings = jsonOrNil(in.EmbeddingSettings)
	}
	if in.Has("model_settings") {
		v.ModelSettings = jsonOrNil(in.ModelSettings)
	}
	if in.Has("type") {
		t := in.Type.Normalize()
		if !t.Valid() {
			return []domainagg.Violation{{Field: "type", Rule: "version_type", Message: fmt.Sprintf("unrecognized version type %q", in.Type)}}
		}
		v.Type = t
	}
	return nil
}

func resolveScope(v *types.PromptVersion, vo versionOptions) (int64, bool) {
	if scope, ok := v.Scope(); ok && scope > 0 {
		return scope, true
	}
	if vo.hasScope && vo.scope > 0 {
		return vo.scope, true
	}
	return 0, false
}

func prefixViolations(err error, prefix string) error {
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) || aggErr.Code != domainagg.CodeValidation {
		return err
	}
	out := make([]domainagg.Violation, 0, len(aggErr.Violations))
	for _, v := range aggErr.Violations {
		v.Field = prefix + "." + v.Field
		out = append(out, v)
	}
	return domainagg.ValidationError(opBuildPrompt, out...)
}

// jsonOrNil collapses absent and literal-null documents to nil.
func jsonOrNil(raw datatypes.JSON) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return raw
}
