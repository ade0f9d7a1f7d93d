// Package validator validates structs by "validate" tags, error messages use JSON names of the fields.
package validator

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"

	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

type Rule struct {
	Tag  string
	Func validator.Func
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New(rules ...Rule) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Register default EN translator
	enLocale := en.New()
	translator, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(errors.New("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(errors.Errorf("translator was not registered: %w", err))
	}

	// Register custom validation rules
	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.Tag, rule.Func); err != nil {
			panic(err)
		}
	}

	// Use JSON field name in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: validate, translator: translator}
}

// Validate a struct, all errors are returned as a MultiError.
func (v *Validator) Validate(ctx context.Context, value any) error {
	err := v.validate.StructCtx(ctx, value)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.WithStack(err)
	}

	result := errors.NewMultiError()
	for _, e := range validationErrs {
		result.Append(errors.New(v.message(e)))
	}
	return result.ErrorOrNil()
}

// message replaces the field name in the translated message by the quoted full path of the field.
func (v *Validator) message(e validator.FieldError) string {
	path := e.Field()
	if _, after, found := strings.Cut(e.Namespace(), "."); found {
		// Remove struct name
		path = after
	}
	return strings.Replace(e.Translate(v.translator), e.Field(), `"`+path+`"`, 1)
}
