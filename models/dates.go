package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// ParseDate accepts "YYYY-MM" (normalised to the first day of that month) or "YYYY-MM-DD".
func ParseDate(value string) (datatypes.Date, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(monthLayout, value); err == nil {
		return datatypes.Date(t), nil
	}
	if t, err := time.Parse(dayLayout, value); err == nil {
		return datatypes.Date(t), nil
	}
	return datatypes.Date{}, fmt.Errorf("%q is not a YYYY-MM or YYYY-MM-DD date", value)
}

// ParseOptionalDate parses value when it is non-nil.
func ParseOptionalDate(value *string) (*datatypes.Date, error) {
	if value == nil {
		return nil, nil
	}
	d, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FormatMonth renders a stored date with month granularity, or nil when unset.
func FormatMonth(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format(monthLayout)
	return &s
}
