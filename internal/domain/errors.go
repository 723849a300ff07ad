package domain

import "fmt"

type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Value, e.Field)
}

func NewFieldError(field, value string) *FieldError {
	return &FieldError{Field: field, Value: value}
}
