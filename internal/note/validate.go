package note

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const tagSeparator = ","

type validation struct {
	validate *validator.Validate
	trans    ut.Translator
}

var loadValidation = sync.OnceValues(newValidation)

func newValidation() (*validation, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	err := enTranslations.RegisterDefaultTranslations(validate, trans)
	if err != nil {
		return nil, fmt.Errorf("register default translations: %w", err)
	}

	// Report fields by their config file names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return &validation{validate: validate, trans: trans}, nil
}

// ParseTags splits a comma separated tag list, e.g. "personal,todo".
// Every tag must be a non-empty alphanumeric word; whitespace around the
// separators is not allowed.
func ParseTags(raw string) ([]string, error) {
	tags := strings.Split(raw, tagSeparator)

	err := ValidateTags(tags)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

// ValidateTags checks that every tag is alphanumeric. The error names the
// whole tag list once rather than each offending tag.
func ValidateTags(tags []string) error {
	v, err := loadValidation()
	if err != nil {
		return err
	}

	for _, tag := range tags {
		if v.validate.Var(tag, "required,alphanum") != nil {
			return fmt.Errorf("%w: %q (tags must be comma separated alphanumeric words)",
				ErrInvalidTagFormat, strings.Join(tags, tagSeparator))
		}
	}

	return nil
}

// validateStruct runs struct tag validation and returns the translated
// messages of all failed fields joined into one error.
func validateStruct(value any) error {
	v, err := loadValidation()
	if err != nil {
		return err
	}

	err = v.validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		msgs = append(msgs, fieldErr.Translate(v.trans))
	}

	return errors.New(strings.Join(msgs, "; "))
}
