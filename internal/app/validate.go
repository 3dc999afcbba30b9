package app

import (
	"context"
	"reflect"
	"strings"

	"quizhub-service/internal/domain"
)

// NotEmpty fails when value is nil, a blank string, a numeric zero or an empty slice.
func NotEmpty(value any, label string) error {
	if isEmpty(value) {
		return domain.Validation(domain.EmptyFieldMessage(label))
	}
	return nil
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	}
	return false
}

// InRange fails when value is outside [min, max].
func InRange(value, min, max int, label string) error {
	if value < min || value > max {
		return domain.Validation(domain.RangeMessage(label, min, max))
	}
	return nil
}

// MaxLength fails when value is longer than max bytes.
func MaxLength(value string, max int, label string) error {
	if len(value) > max {
		return domain.Validation(domain.MaxLengthMessage(label, max))
	}
	return nil
}

// UniqueChecker reports whether a value is already taken.
type UniqueChecker interface {
	Exists(ctx context.Context, field domain.UniqueField, value string) (bool, error)
}

// Unique fails with a conflict when value is already stored under field.
func Unique(ctx context.Context, checker UniqueChecker, field domain.UniqueField, value, label string) error {
	taken, err := checker.Exists(ctx, field, value)
	if err != nil {
		return domain.Internal(err)
	}
	if taken {
		return domain.Conflict(domain.DuplicateMessage(label))
	}
	return nil
}

// firstError returns the first non-nil error, mirroring short-circuit validation.
func firstError(errs ...func() error) error {
	for _, fn := range errs {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
