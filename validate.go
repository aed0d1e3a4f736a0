package mapsapi

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs tag-based validation and converts the first failure
// into a ValidationError naming the offending field and constraint.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := fmt.Sprintf("failed %q constraint", fe.Tag())
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed %q=%s constraint", fe.Tag(), fe.Param())
		}
		return &ValidationError{Field: fe.Field(), Reason: reason}
	}

	return &ValidationError{Field: "request", Reason: err.Error()}
}

// broadcast normalizes an optional per-input parameter to the input
// cardinality n: absent stays absent, a single value is replicated, a
// length-n vector is used as-is, anything else fails before any network call.
func broadcast[T any](field string, values []T, n int) ([]T, error) {
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		out := make([]T, n)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	case n:
		return values, nil
	default:
		return nil, &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("length must be 1 or %d (number of addresses), got %d", n, len(values)),
		}
	}
}
