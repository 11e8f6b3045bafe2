package form

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextArea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeFile     FieldType = "file"
)

// OptionTypes are the field types that must carry at least one option.
var OptionTypes = map[FieldType]bool{
	FieldTypeDropdown: true,
	FieldTypeCheckbox: true,
	FieldTypeRadio:    true,
}

type FieldOption struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// FieldValidation is the structured constraint set for one field. Pointers
// distinguish "unset" from zero values.
type FieldValidation struct {
	Required     bool     `json:"required" bson:"required"`
	MinLength    *int     `json:"min_length,omitempty" bson:"min_length,omitempty"`
	MaxLength    *int     `json:"max_length,omitempty" bson:"max_length,omitempty"`
	Min          *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max          *float64 `json:"max,omitempty" bson:"max,omitempty"`
	Pattern      string   `json:"pattern,omitempty" bson:"pattern,omitempty"`
	FileTypes    []string `json:"file_types,omitempty" bson:"file_types,omitempty"`
	MaxFileSize  int64    `json:"max_file_size,omitempty" bson:"max_file_size,omitempty"` // bytes, 0 = unlimited
	MinFileCount *int     `json:"min_file_count,omitempty" bson:"min_file_count,omitempty"`
	MaxFileCount *int     `json:"max_file_count,omitempty" bson:"max_file_count,omitempty"`
	Script       string   `json:"script,omitempty" bson:"script,omitempty"` // optional tengo expression, sets `valid`
}

// FormField lives in its own collection keyed by FormID. Editing a form never
// mutates fields in place: the whole set is deactivated and the incoming list
// is upserted, so historical submissions keep resolving against inactive
// field versions.
type FormField struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FormID     primitive.ObjectID `json:"form_id" bson:"form_id"`
	Name       string             `json:"name" bson:"name"`
	Label      string             `json:"label" bson:"label"`
	Type       FieldType          `json:"type" bson:"type"`
	Options    []FieldOption      `json:"options,omitempty" bson:"options,omitempty"`
	Validation FieldValidation    `json:"validation" bson:"validation"`
	Order      int                `json:"order" bson:"order"`
	IsActive   bool               `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

type FormSettings struct {
	AllowMultipleSubmissions bool       `json:"allow_multiple_submissions" bson:"allow_multiple_submissions"`
	RequireLogin             bool       `json:"require_login" bson:"require_login"`
	ConfirmationMessage      string     `json:"confirmation_message" bson:"confirmation_message"`
	RedirectURL              string     `json:"redirect_url,omitempty" bson:"redirect_url,omitempty"`
	SubmissionLimit          int64      `json:"submission_limit" bson:"submission_limit"` // 0 = unlimited
	StartDate                *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate                  *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
}

// FormStats are derived counters maintained by the persistence layer.
type FormStats struct {
	TotalSubmissions int64      `json:"total_submissions" bson:"total_submissions"`
	UniqueSubmitters int64      `json:"unique_submitters" bson:"unique_submitters"`
	LastSubmissionAt *time.Time `json:"last_submission_at,omitempty" bson:"last_submission_at,omitempty"`
}

type Form struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Settings    FormSettings       `json:"settings" bson:"settings"`
	Stats       FormStats          `json:"stats" bson:"stats"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	CreatedBy   primitive.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// FormWithFields is the snapshot handed to validation and rendering.
type FormWithFields struct {
	Form   `bson:",inline"`
	Fields []FormField `json:"fields"`
}

// AcceptanceState classifies why a form is not currently accepting.
type AcceptanceState int

const (
	Accepting AcceptanceState = iota
	NotActive
	OutsideWindow
	LimitReached
)

// Acceptance evaluates the accepting rule against now. The submission-limit
// branch here is only advisory; the authoritative check is the conditional
// stats increment in the repository.
func (f *Form) Acceptance(now time.Time) AcceptanceState {
	if !f.IsActive {
		return NotActive
	}
	if f.Settings.StartDate != nil && now.Before(*f.Settings.StartDate) {
		return OutsideWindow
	}
	if f.Settings.EndDate != nil && now.After(*f.Settings.EndDate) {
		return OutsideWindow
	}
	if f.Settings.SubmissionLimit > 0 && f.Stats.TotalSubmissions >= f.Settings.SubmissionLimit {
		return LimitReached
	}
	return Accepting
}
