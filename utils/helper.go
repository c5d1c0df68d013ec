package utils

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// business codes: uppercase letters, digits, dashes and underscores
var codePattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// "refcode" tags client/mine/warehouse codes, batch numbers and sample codes
	v.RegisterValidation("refcode", func(fl validator.FieldLevel) bool {
		return codePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs the tag-based rules declared on an input struct.
func ValidateStruct(input interface{}) error {
	return validate.Struct(input)
}

// ProcessValidationErrors flattens validator errors to a field => message map.
func ProcessValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			out[ve.Field()] = ve.Tag()
		}
	}
	return out
}

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

func NilIfEmpty[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

func UniqueSlice[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
