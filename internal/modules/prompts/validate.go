package prompts

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return types.VariableNamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("version_type", func(fl validator.FieldLevel) bool {
			return types.PromptVersionType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("message_role", func(fl validator.FieldLevel) bool {
			return types.MessageRole(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Validate checks the payload's structural constraints and reports every violation at once.
func (in *PromptInput) Validate() error {
	if in == nil {
		return domainagg.ValidationError(opValidate, domainagg.Violation{Field: "body", Rule: "required", Message: "payload is required"})
	}
	return validateStruct(in)
}

// Validate checks a single version payload.
func (in *VersionInput) Validate() error {
	if in == nil {
		return domainagg.ValidationError(opValidate, domainagg.Violation{Field: "body", Rule: "required", Message: "payload is required"})
	}
	return validateStruct(in)
}

const opValidate = "prompts.validate"

func validateStruct(s interface{}) error {
	err := payloadValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domainagg.Wrap(domainagg.CodeInternal, opValidate, err)
	}
	violations := make([]domainagg.Violation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, domainagg.Violation{
			Field:   fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return domainagg.ValidationError(opValidate, violations...)
}

// fieldPath drops the root struct name: "PromptInput.versions[0].name" -> "versions[0].name".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "identifier":
		return "must start with a letter or underscore followed by letters, digits or underscores"
	case "version_type":
		return fmt.Sprintf("unrecognized version type %q", fe.Value())
	case "message_role":
		return fmt.Sprintf("unrecognized message role %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
