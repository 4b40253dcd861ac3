package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// Validator adapts go-playground/validator to echo.Validator. Messages name
// the json field that failed.
type Validator struct {
	v *validator.Validate
}

// RequestError lists every problem found in one request body.
type RequestError struct {
	Problems []string
}

func (e *RequestError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	// role accepts exactly the names ParseRole does.
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	problems := make([]string, 0, len(ve))
	for _, fe := range ve {
		problems = append(problems, describe(fe))
	}
	return &RequestError{Problems: problems}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "", "-":
		return strings.ToLower(f.Name)
	default:
		return name
	}
}

func describe(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "role":
		return field + " must be one of Admin, Manager, Employee"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
