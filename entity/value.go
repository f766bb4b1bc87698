package entity

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Value wraps a field value and provides type conversion helpers.
type Value struct {
	Raw any
}

// String returns the value as a string.
func (v Value) String() string {
	if v.Raw == nil {
		return ""
	}
	return fmt.Sprintf("%v", v.Raw)
}

// Int returns the value as an int.
func (v Value) Int() (int, error) {
	switch i := v.Raw.(type) {
	case int64:
		return int(i), nil
	case int32:
		return int(i), nil
	case int:
		return i, nil
	}
	return 0, errors.Errorf("value is not an integer: %T", v.Raw)
}

// Float returns the value as a float64.
func (v Value) Float() (float64, error) {
	f, ok := v.Raw.(float64)
	if !ok {
		return 0, errors.Errorf("value is not a float64: %T", v.Raw)
	}
	return f, nil
}

// Bool returns the value as a bool.
func (v Value) Bool() (bool, error) {
	b, ok := v.Raw.(bool)
	if !ok {
		return false, errors.Errorf("value is not a bool: %T", v.Raw)
	}
	return b, nil
}

// Time returns the value as a time.Time.
func (v Value) Time() (time.Time, error) {
	t, ok := v.Raw.(time.Time)
	if !ok {
		return time.Time{}, errors.Errorf("value is not a time.Time: %T", v.Raw)
	}
	return t, nil
}
