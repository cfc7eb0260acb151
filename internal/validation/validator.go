// Package validation checks inbound action payloads using the validator/v10 library.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator for media record shape checks.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// MissingFields returns the JSON names of required fields that are absent
// from s, sorted. A nil s reports a single "data" entry.
func (v *Validator) MissingFields(s any) ([]string, error) {
	if s == nil || (reflect.ValueOf(s).Kind() == reflect.Pointer && reflect.ValueOf(s).IsNil()) {
		return []string{"data"}, nil
	}

	err := v.v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}

	missing := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		if e.Tag() == "required" {
			missing = append(missing, e.Field())
		}
	}
	sort.Strings(missing)
	return missing, nil
}
