package content

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Validate checks raw frontmatter against the blog schema. Every field is
// checked and every failure is reported; the returned error is a
// *ValidationError when any field is rejected. Keys outside the schema are
// ignored.
func Validate(raw map[string]any) (Metadata, error) {
	var m Metadata
	var errs []*FieldError
	for _, f := range blogSchema {
		v, ok := raw[f.name]
		if !ok {
			if f.required {
				errs = append(errs, &FieldError{
					Field:      f.name,
					Kind:       MissingRequiredField,
					Constraint: "required",
				})
			}
			continue
		}
		coerced, fe := f.check(v)
		if fe != nil {
			errs = append(errs, fe)
			continue
		}
		f.assign(&m, coerced)
	}
	if len(errs) > 0 {
		return Metadata{}, &ValidationError{Errors: errs}
	}
	return m, nil
}

func (f field) check(v any) (any, *FieldError) {
	fail := func(kind ErrorKind, constraint string) (any, *FieldError) {
		return nil, &FieldError{
			Field:      f.name,
			Kind:       kind,
			Constraint: constraint,
			Value:      v,
			Present:    true,
		}
	}
	switch f.typ {
	case stringField:
		s, ok := v.(string)
		if !ok {
			return fail(TypeMismatch, "must be a string")
		}
		if f.nonEmpty && s == "" {
			return fail(MissingRequiredField, "must not be empty")
		}
		return s, nil
	case enumField:
		s, ok := v.(string)
		if !ok {
			return fail(TypeMismatch, "must be a string")
		}
		for _, allowed := range f.enum {
			if s == allowed {
				return s, nil
			}
		}
		return fail(InvalidEnumValue, "must be one of: "+strings.Join(f.enum, ", "))
	case dateField:
		t, ok := coerceDate(v)
		if !ok {
			return fail(InvalidDate, "must be a valid date")
		}
		return t, nil
	}
	return v, nil
}

// maxDateMillis bounds numeric dates to +-100,000,000 days around the Unix
// epoch, the range a JavaScript Date can hold.
const maxDateMillis = 8.64e15

// coerceDate converts loosely typed frontmatter into a time. Strings are
// parsed in UTC, numbers are milliseconds since the Unix epoch.
func coerceDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x, inDateRange(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, inDateRange(t)
	case int:
		return fromMillis(float64(x))
	case int64:
		return fromMillis(float64(x))
	case uint64:
		return fromMillis(float64(x))
	case float64:
		return fromMillis(x)
	}
	return time.Time{}, false
}

// fromMillis truncates fractional milliseconds toward zero.
func fromMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.Abs(ms) > maxDateMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

func inDateRange(t time.Time) bool {
	lo := time.UnixMilli(-maxDateMillis)
	hi := time.UnixMilli(maxDateMillis)
	return !t.Before(lo) && !t.After(hi)
}
