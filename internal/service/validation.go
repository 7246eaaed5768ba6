package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// ValidationError indica el primer campo invalido y la regla que no cumplio.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q violates %q", ErrValidation, e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

var feedbackEmailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// newValidator registra las reglas propias y usa los nombres json en los errores.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("feedbackemail", func(fl validator.FieldLevel) bool {
		return feedbackEmailRe.MatchString(fl.Field().String())
	})
	return v
}

// toValidationError traduce el primer error del validator; cualquier otra cosa se devuelve tal cual.
func toValidationError(err error, field string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	if field == "" {
		field = fe.Field()
	}
	return &ValidationError{Field: field, Rule: rule}
}
