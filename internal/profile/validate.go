package profile

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a JSON field path to a readable problem.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

// Validate checks a whole profile.
func Validate(p Profile) error {
	return check(p)
}

// ValidateSettings checks only the generation settings. Keys use the same
// paths as Validate.
func ValidateSettings(s GenerationSettings) error {
	err := check(s)
	var fe FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	prefixed := make(FieldErrors, len(fe))
	for k, v := range fe {
		prefixed["generation_settings."+k] = v
	}
	return prefixed
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		details[fieldPath(e.Namespace())] = formatValidationError(e)
	}
	return details
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	default:
		return "invalid value"
	}
}

// Warnings lists problems worth surfacing without blocking work.
func Warnings(p Profile) []string {
	var out []string
	var fe FieldErrors
	if err := Validate(p); errors.As(err, &fe) {
		keys := make([]string, 0, len(fe))
		for k := range fe {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, k+" "+fe[k])
		}
	}
	if p.PersonalInfo.FullName == "" || p.PersonalInfo.FullName == Default().PersonalInfo.FullName {
		out = append(out, "personal_info still holds placeholder values; edit the profile or run `jobapp parse <resume>`")
	}
	if len(p.Experience) == 0 {
		out = append(out, "experience is empty; the resume will have no work history")
	}
	return out
}
