package validation

import (
	"reflect"
	"time"

	gferrors "github.com/vnykmshr/schedexec/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegativeDuration validates that a duration is not negative.
// Zero is accepted and usually means "immediately" or "disabled".
func ValidateNonNegativeDuration(module, field string, value time.Duration) error {
	if value < 0 {
		return gferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive duration")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil. A typed nil
// such as workerpool.Func(nil) or a nil pointer counts as nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if isNil(value) {
		return gferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Func, reflect.Ptr, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
