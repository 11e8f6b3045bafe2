package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateFieldSet(t *testing.T) {
	tests := []struct {
		name    string
		fields  []FormField
		wantErr string
	}{
		{
			name: "valid mixed set",
			fields: []FormField{
				{Name: "full_name", Type: FieldTypeText},
				{Name: "age_2", Type: FieldTypeNumber},
				{Name: "color", Type: FieldTypeDropdown, Options: []FieldOption{{Label: "Red", Value: "red"}}},
			},
		},
		{
			name:    "name with spaces",
			fields:  []FormField{{Name: "full name", Type: FieldTypeText}},
			wantErr: "field name 'full name' is invalid",
		},
		{
			name:    "name with dashes",
			fields:  []FormField{{Name: "full-name", Type: FieldTypeText}},
			wantErr: "field name 'full-name' is invalid",
		},
		{
			name:    "empty name",
			fields:  []FormField{{Name: "", Type: FieldTypeText}},
			wantErr: "field name '' is invalid",
		},
		{
			name: "duplicate names",
			fields: []FormField{
				{Name: "email", Type: FieldTypeEmail},
				{Name: "email", Type: FieldTypeText},
			},
			wantErr: "duplicate field name 'email'",
		},
		{
			name:    "unknown type",
			fields:  []FormField{{Name: "x", Type: "slider"}},
			wantErr: "unknown type 'slider'",
		},
		{
			name:    "dropdown without options",
			fields:  []FormField{{Name: "color", Type: FieldTypeDropdown}},
			wantErr: "must have at least one option",
		},
		{
			name:    "checkbox without options",
			fields:  []FormField{{Name: "tags", Type: FieldTypeCheckbox}},
			wantErr: "must have at least one option",
		},
		{
			name: "invalid pattern",
			fields: []FormField{
				{Name: "code", Type: FieldTypeText, Validation: FieldValidation{Pattern: "["}},
			},
			wantErr: "invalid pattern",
		},
		{
			name:   "empty set",
			fields: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldSet(tt.fields)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFormAcceptance(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		form Form
		want AcceptanceState
	}{
		{
			name: "active with defaults",
			form: Form{IsActive: true},
			want: Accepting,
		},
		{
			name: "inactive",
			form: Form{IsActive: false},
			want: NotActive,
		},
		{
			name: "before window opens",
			form: Form{IsActive: true, Settings: FormSettings{StartDate: &future}},
			want: OutsideWindow,
		},
		{
			name: "after window closes",
			form: Form{IsActive: true, Settings: FormSettings{EndDate: &past}},
			want: OutsideWindow,
		},
		{
			name: "inside window",
			form: Form{IsActive: true, Settings: FormSettings{StartDate: &past, EndDate: &future}},
			want: Accepting,
		},
		{
			name: "at the limit",
			form: Form{IsActive: true, Settings: FormSettings{SubmissionLimit: 5}, Stats: FormStats{TotalSubmissions: 5}},
			want: LimitReached,
		},
		{
			name: "under the limit",
			form: Form{IsActive: true, Settings: FormSettings{SubmissionLimit: 5}, Stats: FormStats{TotalSubmissions: 4}},
			want: Accepting,
		},
		{
			name: "zero limit is unlimited",
			form: Form{IsActive: true, Stats: FormStats{TotalSubmissions: 9999}},
			want: Accepting,
		},
		{
			name: "inactive outranks window",
			form: Form{IsActive: false, Settings: FormSettings{StartDate: &future}},
			want: NotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form.Acceptance(now))
		})
	}
}
