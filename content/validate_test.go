package content_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/eringen/inkpress/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimal() map[string]any {
	return map[string]any{
		"title":       "A",
		"description": "B",
		"pubDate":     "2024-01-01",
		"category":    "algorithm",
	}
}

func validationError(t *testing.T, err error) *content.ValidationError {
	t.Helper()
	var ve *content.ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve
}

func TestValidate_Minimal(t *testing.T) {
	meta, err := content.Validate(minimal())
	require.NoError(t, err)

	assert.Equal(t, "A", meta.Title)
	assert.Equal(t, "B", meta.Description)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), meta.PubDate)
	assert.Equal(t, content.CategoryAlgorithm, meta.Category)
	assert.Nil(t, meta.UpdatedDate)
	assert.Nil(t, meta.CoverImage)
	assert.Nil(t, meta.CoverImageCredit)
}

func TestValidate_AllFields(t *testing.T) {
	raw := minimal()
	raw["updatedDate"] = "2023-06-15T10:30:00Z"
	raw["coverImage"] = "/images/cover.png"
	raw["coverImageCredit"] = "Photo by someone"
	raw["category"] = "software-design"
	raw["draft"] = true // not part of the schema

	meta, err := content.Validate(raw)
	require.NoError(t, err)

	require.NotNil(t, meta.UpdatedDate)
	assert.Equal(t, time.Date(2023, 6, 15, 10, 30, 0, 0, time.UTC), meta.UpdatedDate.UTC())
	require.NotNil(t, meta.CoverImage)
	assert.Equal(t, "/images/cover.png", *meta.CoverImage)
	require.NotNil(t, meta.CoverImageCredit)
	assert.Equal(t, "Photo by someone", *meta.CoverImageCredit)
	assert.Equal(t, content.CategorySoftwareDesign, meta.Category)
}

func TestValidate_UpdatedBeforePublishedIsAccepted(t *testing.T) {
	raw := minimal()
	raw["updatedDate"] = "2020-01-01"

	meta, err := content.Validate(raw)
	require.NoError(t, err)
	require.NotNil(t, meta.UpdatedDate)
	assert.True(t, meta.UpdatedDate.Before(meta.PubDate))
}

func TestValidate_MissingRequired(t *testing.T) {
	for _, name := range []string{"title", "description", "pubDate", "category"} {
		t.Run(name, func(t *testing.T) {
			raw := minimal()
			delete(raw, name)

			_, err := content.Validate(raw)
			ve := validationError(t, err)
			require.Len(t, ve.Errors, 1)
			fe := ve.Errors[0]
			assert.Equal(t, name, fe.Field)
			assert.Equal(t, content.MissingRequiredField, fe.Kind)
			assert.Equal(t, "required", fe.Constraint)
			assert.False(t, fe.Present)
			assert.ErrorIs(t, err, content.ErrMissingRequiredField)
		})
	}
}

func TestValidate_EmptyInputReportsEveryRequiredField(t *testing.T) {
	_, err := content.Validate(map[string]any{})
	ve := validationError(t, err)

	var fields []string
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
		assert.Equal(t, content.MissingRequiredField, fe.Kind)
	}
	assert.Equal(t, []string{"title", "description", "pubDate", "category"}, fields)
}

func TestValidate_InvalidCategory(t *testing.T) {
	raw := minimal()
	raw["category"] = "poetry"

	_, err := content.Validate(raw)
	ve := validationError(t, err)
	require.Len(t, ve.Errors, 1)
	fe := ve.Errors[0]
	assert.Equal(t, content.InvalidEnumValue, fe.Kind)
	assert.Equal(t, "must be one of: algorithm, low-level-system, software-design", fe.Constraint)
	assert.Equal(t, "poetry", fe.Value)
	assert.True(t, fe.Present)
	assert.ErrorIs(t, err, content.ErrInvalidEnumValue)
}

func TestValidate_CategoryIsCaseSensitive(t *testing.T) {
	raw := minimal()
	raw["category"] = "Algorithm"

	_, err := content.Validate(raw)
	assert.ErrorIs(t, err, content.ErrInvalidEnumValue)
}

func TestValidate_InvalidDate(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
	}{
		{"garbage pubDate", "pubDate", "not-a-date"},
		{"empty pubDate", "pubDate", ""},
		{"bool pubDate", "pubDate", true},
		{"list pubDate", "pubDate", []any{"2024-01-01"}},
		{"garbage updatedDate", "updatedDate", "someday"},
		{"huge float pubDate", "pubDate", 1e300},
		{"infinite pubDate", "pubDate", math.Inf(-1)},
		{"int64 beyond range", "pubDate", int64(9e18)},
		{"uint64 beyond range", "pubDate", uint64(math.MaxUint64)},
		{"just past max millis", "pubDate", int64(8_640_000_000_000_001)},
		{"just before min millis", "updatedDate", int64(-8_640_000_000_000_001)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimal()
			raw[tt.field] = tt.value

			_, err := content.Validate(raw)
			ve := validationError(t, err)
			require.Len(t, ve.Errors, 1)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
			assert.Equal(t, content.InvalidDate, ve.Errors[0].Kind)
			assert.Equal(t, "must be a valid date", ve.Errors[0].Constraint)
			assert.ErrorIs(t, err, content.ErrInvalidDate)
		})
	}
}

func TestValidate_DateRangeLimits(t *testing.T) {
	tests := []struct {
		name  string
		value any
		year  int
	}{
		{"five digit year", int64(1_000_000_000_000_000), 33658},
		{"max millis", int64(8_640_000_000_000_000), 275760},
		{"min millis", float64(-8.64e15), -271821},
		{"fraction truncated", 1.9, 1970},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimal()
			raw["pubDate"] = tt.value

			meta, err := content.Validate(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.year, meta.PubDate.Year())
		})
	}
}

func TestValidate_DateCoercion(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		value any
	}{
		{"iso date", "2024-03-05"},
		{"iso datetime", "2024-03-05T00:00:00Z"},
		{"time value", want},
		{"epoch millis int", int(want.UnixMilli())},
		{"epoch millis int64", want.UnixMilli()},
		{"epoch millis float", float64(want.UnixMilli())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimal()
			raw["pubDate"] = tt.value

			meta, err := content.Validate(raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(meta.PubDate), "got %v", meta.PubDate)
		})
	}
}

func TestValidate_TypeMismatch(t *testing.T) {
	tests := []struct {
		field string
		value any
	}{
		{"title", 42},
		{"description", []any{"x"}},
		{"coverImage", false},
		{"coverImageCredit", nil},
		{"category", 3},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			raw := minimal()
			raw[tt.field] = tt.value

			_, err := content.Validate(raw)
			ve := validationError(t, err)
			require.Len(t, ve.Errors, 1)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
			assert.Equal(t, content.TypeMismatch, ve.Errors[0].Kind)
			assert.ErrorIs(t, err, content.ErrTypeMismatch)
		})
	}
}

func TestValidate_EmptyRequiredString(t *testing.T) {
	raw := minimal()
	raw["title"] = ""

	_, err := content.Validate(raw)
	ve := validationError(t, err)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, content.MissingRequiredField, ve.Errors[0].Kind)
	assert.True(t, ve.Errors[0].Present)
}

func TestValidate_WhitespaceRequiredStringIsKept(t *testing.T) {
	raw := minimal()
	raw["description"] = "   "

	meta, err := content.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "   ", meta.Description)
}

func TestValidate_EmptyOptionalStringIsKept(t *testing.T) {
	raw := minimal()
	raw["coverImageCredit"] = ""

	meta, err := content.Validate(raw)
	require.NoError(t, err)
	require.NotNil(t, meta.CoverImageCredit)
	assert.Equal(t, "", *meta.CoverImageCredit)
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	raw := minimal()
	delete(raw, "title")
	raw["category"] = "poetry"

	_, err := content.Validate(raw)
	ve := validationError(t, err)
	require.Len(t, ve.Errors, 2)
	assert.Equal(t, "title", ve.Errors[0].Field)
	assert.Equal(t, content.MissingRequiredField, ve.Errors[0].Kind)
	assert.Equal(t, "category", ve.Errors[1].Field)
	assert.Equal(t, content.InvalidEnumValue, ve.Errors[1].Kind)
	assert.NotNil(t, ve.Field("category"))
	assert.Nil(t, ve.Field("description"))
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := []map[string]any{
		minimal(),
		{"title": 1, "pubDate": "nope", "category": "poetry"},
	}
	for _, raw := range inputs {
		m1, err1 := content.Validate(raw)
		m2, err2 := content.Validate(raw)
		assert.Equal(t, m1, m2)
		assert.Equal(t, err1, err2)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	raw := minimal()
	raw["extra"] = "kept"
	before := map[string]any{}
	for k, v := range raw {
		before[k] = v
	}

	_, err := content.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, before, raw)
}

func TestValidationError_Message(t *testing.T) {
	_, err := content.Validate(map[string]any{"title": "T", "description": "D", "pubDate": "2024-01-01", "category": "poetry"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `category: must be one of: algorithm, low-level-system, software-design (got "poetry")`)
}

func TestCategory_Title(t *testing.T) {
	assert.Equal(t, "Low Level System", content.CategoryLowLevelSystem.Title())
	assert.True(t, content.CategorySoftwareDesign.Valid())
	assert.False(t, content.Category("poetry").Valid())
}
