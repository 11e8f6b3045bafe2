package submission

import (
	"testing"

	"go-formhub/internal/features/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func textField(name, label string, v form.FieldValidation) form.FormField {
	return form.FormField{Name: name, Label: label, Type: form.FieldTypeText, Validation: v, IsActive: true}
}

func TestValidateRequired(t *testing.T) {
	fields := []form.FormField{
		textField("name", "Name", form.FieldValidation{Required: true}),
		textField("nickname", "Nickname", form.FieldValidation{}),
	}

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr []string
	}{
		{
			name:    "missing required",
			raw:     map[string]any{},
			wantErr: []string{"Name is required"},
		},
		{
			name:    "empty string counts as missing",
			raw:     map[string]any{"name": ""},
			wantErr: []string{"Name is required"},
		},
		{
			name:    "nil counts as missing",
			raw:     map[string]any{"name": nil},
			wantErr: []string{"Name is required"},
		},
		{
			name: "optional absent is fine",
			raw:  map[string]any{"name": "Ada"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(fields, tt.raw)
			assert.Equal(t, tt.wantErr, res.Errors)
			if len(tt.wantErr) == 0 {
				assert.True(t, res.Valid())
				_, hasOptional := res.Data["nickname"]
				assert.False(t, hasOptional, "absent optional field must not appear in Data")
			}
		})
	}
}

func TestValidateNumber(t *testing.T) {
	fields := []form.FormField{
		{
			Name: "age", Label: "Age", Type: form.FieldTypeNumber, IsActive: true,
			Validation: form.FieldValidation{Required: true, Min: floatPtr(18), Max: floatPtr(99)},
		},
	}

	tests := []struct {
		name    string
		value   any
		want    float64
		wantErr []string
	}{
		{name: "float64", value: 42.0, want: 42},
		{name: "int coerced", value: 42, want: 42},
		{name: "numeric string coerced", value: "42", want: 42},
		{name: "garbage string", value: "forty two", wantErr: []string{"Age must be a valid number"}},
		{name: "bool is not a number", value: true, wantErr: []string{"Age must be a valid number"}},
		{name: "below min", value: 17.0, wantErr: []string{"Age must be at least 18"}},
		{name: "above max", value: 120.0, wantErr: []string{"Age must be at most 99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(fields, map[string]any{"age": tt.value})
			if len(tt.wantErr) > 0 {
				assert.Equal(t, tt.wantErr, res.Errors)
				return
			}
			require.True(t, res.Valid(), "errors: %v", res.Errors)
			assert.Equal(t, tt.want, res.Data["age"])
		})
	}
}

func TestValidateEmail(t *testing.T) {
	fields := []form.FormField{
		{Name: "email", Label: "Email", Type: form.FieldTypeEmail, IsActive: true,
			Validation: form.FieldValidation{Required: true}},
	}

	valid := []string{"a@b.co", "first.last@example.com", "user+tag@sub.domain.org"}
	for _, addr := range valid {
		res := Validate(fields, map[string]any{"email": addr})
		assert.True(t, res.Valid(), "expected %q to pass, got %v", addr, res.Errors)
	}

	invalid := []any{"not-an-email", "missing@dot", "two@@at.com", "spaces in@addr.com", 42}
	for _, addr := range invalid {
		res := Validate(fields, map[string]any{"email": addr})
		assert.Equal(t, []string{"Email must be a valid email address"}, res.Errors, "value %v", addr)
	}
}

func TestValidateTextConstraints(t *testing.T) {
	fields := []form.FormField{
		textField("code", "Code", form.FieldValidation{
			Required:  true,
			MinLength: intPtr(3),
			MaxLength: intPtr(5),
			Pattern:   `^[A-Z]+$`,
		}),
	}

	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "too short", value: "AB", wantErr: "Code must be at least 3 characters"},
		{name: "too long", value: "ABCDEF", wantErr: "Code must be at most 5 characters"},
		// min is checked before pattern, only one message surfaces
		{name: "short and wrong pattern", value: "ab", wantErr: "Code must be at least 3 characters"},
		{name: "pattern mismatch", value: "abcd", wantErr: "Code format is invalid"},
		{name: "valid", value: "ABCD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(fields, map[string]any{"code": tt.value})
			if tt.wantErr != "" {
				assert.Equal(t, []string{tt.wantErr}, res.Errors)
				return
			}
			assert.True(t, res.Valid())
			assert.Equal(t, tt.value, res.Data["code"])
		})
	}
}

func TestValidateTextLengthCountsRunes(t *testing.T) {
	fields := []form.FormField{
		textField("name", "Name", form.FieldValidation{MaxLength: intPtr(4)}),
	}

	// 4 runes, 8 bytes
	res := Validate(fields, map[string]any{"name": "日本語字"})
	assert.True(t, res.Valid(), "errors: %v", res.Errors)
}

func TestValidateChoiceMembership(t *testing.T) {
	dropdown := form.FormField{
		Name: "color", Label: "Color", Type: form.FieldTypeDropdown, IsActive: true,
		Options: []form.FieldOption{
			{Label: "Red", Value: "red"},
			{Label: "Blue", Value: "blue"},
		},
	}

	res := Validate([]form.FormField{dropdown}, map[string]any{"color": "red"})
	assert.True(t, res.Valid())

	res = Validate([]form.FormField{dropdown}, map[string]any{"color": "green"})
	assert.Equal(t, []string{"Color has an invalid selection"}, res.Errors)

	// Labels are not values
	res = Validate([]form.FormField{dropdown}, map[string]any{"color": "Red"})
	assert.Equal(t, []string{"Color has an invalid selection"}, res.Errors)
}

func TestValidateCheckboxList(t *testing.T) {
	checkbox := form.FormField{
		Name: "tags", Label: "Tags", Type: form.FieldTypeCheckbox, IsActive: true,
		Options: []form.FieldOption{
			{Label: "A", Value: "a"},
			{Label: "B", Value: "b"},
			{Label: "C", Value: "c"},
		},
	}
	fields := []form.FormField{checkbox}

	res := Validate(fields, map[string]any{"tags": []any{"a", "c"}})
	require.True(t, res.Valid(), "errors: %v", res.Errors)
	assert.Equal(t, []string{"a", "c"}, res.Data["tags"])

	// single scalar normalizes to a one-element list
	res = Validate(fields, map[string]any{"tags": "b"})
	require.True(t, res.Valid())
	assert.Equal(t, []string{"b"}, res.Data["tags"])

	// one bad element poisons the whole selection
	res = Validate(fields, map[string]any{"tags": []any{"a", "z"}})
	assert.Equal(t, []string{"Tags has an invalid selection"}, res.Errors)

	// empty list counts as missing, field is optional
	res = Validate(fields, map[string]any{"tags": []any{}})
	assert.True(t, res.Valid())
}

func TestValidateCollectsAcrossFields(t *testing.T) {
	fields := []form.FormField{
		textField("first", "First", form.FieldValidation{Required: true}),
		{Name: "age", Label: "Age", Type: form.FieldTypeNumber, IsActive: true,
			Validation: form.FieldValidation{Required: true}},
		textField("last", "Last", form.FieldValidation{Required: true}),
	}

	res := Validate(fields, map[string]any{"age": "not a number"})
	assert.Equal(t, []string{
		"First is required",
		"Age must be a valid number",
		"Last is required",
	}, res.Errors)
}

func TestValidateSkipsInactiveFields(t *testing.T) {
	inactive := textField("old", "Old Field", form.FieldValidation{Required: true})
	inactive.IsActive = false

	res := Validate([]form.FormField{inactive}, map[string]any{})
	assert.True(t, res.Valid())
}

func TestValidateCustomScript(t *testing.T) {
	fields := []form.FormField{
		textField("handle", "Handle", form.FieldValidation{
			Required: true,
			Script:   `valid := value != "root"`,
		}),
	}

	res := Validate(fields, map[string]any{"handle": "alice"})
	assert.True(t, res.Valid(), "errors: %v", res.Errors)

	res = Validate(fields, map[string]any{"handle": "root"})
	assert.Equal(t, []string{"Handle failed custom validation"}, res.Errors)
}

func TestValidateWithFiles(t *testing.T) {
	fileField := form.FormField{
		Name: "resume", Label: "Resume", Type: form.FieldTypeFile, IsActive: true,
		Validation: form.FieldValidation{
			Required:     true,
			FileTypes:    []string{"application/pdf"},
			MaxFileSize:  1 << 20,
			MaxFileCount: intPtr(1),
		},
	}
	fields := []form.FormField{fileField}

	t.Run("missing required file", func(t *testing.T) {
		res := ValidateWithFiles(fields, map[string]any{}, nil)
		assert.Equal(t, []string{"Resume is required"}, res.Errors)
	})

	t.Run("accepted file", func(t *testing.T) {
		files := map[string][]SubmissionFile{
			"resume": {{FieldName: "resume", OriginalName: "cv.pdf", Size: 1024, MimeType: "application/pdf"}},
		}
		res := ValidateWithFiles(fields, map[string]any{}, files)
		require.True(t, res.Valid(), "errors: %v", res.Errors)
		assert.Equal(t, "cv.pdf", res.Data["resume"])
	})

	t.Run("wrong mime type", func(t *testing.T) {
		files := map[string][]SubmissionFile{
			"resume": {{FieldName: "resume", OriginalName: "cv.exe", Size: 1024, MimeType: "application/octet-stream"}},
		}
		res := ValidateWithFiles(fields, map[string]any{}, files)
		assert.Equal(t, []string{"Resume: file type application/octet-stream is not allowed"}, res.Errors)
	})

	t.Run("oversized file", func(t *testing.T) {
		files := map[string][]SubmissionFile{
			"resume": {{FieldName: "resume", OriginalName: "cv.pdf", Size: 2 << 20, MimeType: "application/pdf"}},
		}
		res := ValidateWithFiles(fields, map[string]any{}, files)
		assert.Equal(t, []string{"Resume: file cv.pdf exceeds the maximum size"}, res.Errors)
	})

	t.Run("too many files", func(t *testing.T) {
		files := map[string][]SubmissionFile{
			"resume": {
				{FieldName: "resume", OriginalName: "a.pdf", Size: 10, MimeType: "application/pdf"},
				{FieldName: "resume", OriginalName: "b.pdf", Size: 10, MimeType: "application/pdf"},
			},
		}
		res := ValidateWithFiles(fields, map[string]any{}, files)
		assert.Equal(t, []string{"Resume allows at most 1 file(s)"}, res.Errors)
	})
}

func TestCheckFileConstraintsMinCount(t *testing.T) {
	field := form.FormField{
		Name: "photos", Label: "Photos", Type: form.FieldTypeFile, IsActive: true,
		Validation: form.FieldValidation{MinFileCount: intPtr(2)},
	}

	errs := CheckFileConstraints(field, []SubmissionFile{
		{FieldName: "photos", OriginalName: "one.jpg", Size: 10, MimeType: "image/jpeg"},
	})
	assert.Equal(t, []string{"Photos requires at least 2 file(s)"}, errs)
}
