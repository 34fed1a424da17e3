package utils

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the `validate` tags of s.
func ValidateStruct(s any) error {
	return getValidator().Struct(s)
}

// ValidateVar checks a single value against a tag such as "max=255".
func ValidateVar(value any, tag string) error {
	return getValidator().Var(value, tag)
}

// GetValidationErrors flattens validator errors into field -> failed tag.
func GetValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["_"] = err.Error()
		}
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = "_"
		}
		out[field] = fe.Tag()
	}
	return out
}
