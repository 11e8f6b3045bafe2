package submission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusArchived Status = "archived"
)

// ValidStatus reports whether s is one of the known submission states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// SubmissionFile is one uploaded file matched to a file field by its
// declared field name.
type SubmissionFile struct {
	FieldName    string `json:"field_name" bson:"field_name"`
	OriginalName string `json:"original_name" bson:"original_name"`
	StoredName   string `json:"stored_name" bson:"stored_name"`
	Size         int64  `json:"size" bson:"size"`
	MimeType     string `json:"mime_type" bson:"mime_type"`
}

type EditEntry struct {
	EditedAt time.Time          `json:"edited_at" bson:"edited_at"`
	EditedBy primitive.ObjectID `json:"edited_by,omitempty" bson:"edited_by,omitempty"`
	Previous map[string]any     `json:"previous" bson:"previous"`
}

type Metadata struct {
	IPAddress      string      `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent      string      `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	SubmittedAt    time.Time   `json:"submitted_at" bson:"submitted_at"`
	CompletionTime int64       `json:"completion_time,omitempty" bson:"completion_time,omitempty"` // seconds
	IsEdited       bool        `json:"is_edited" bson:"is_edited"`
	EditHistory    []EditEntry `json:"edit_history,omitempty" bson:"edit_history,omitempty"`
}

// Note is a free-form administrator annotation, append-only.
type Note struct {
	Content   string             `json:"content" bson:"content"`
	Author    primitive.ObjectID `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type Submission struct {
	ID             primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	FormID         primitive.ObjectID  `json:"form_id" bson:"form_id"`
	SubmittedBy    *primitive.ObjectID `json:"submitted_by,omitempty" bson:"submitted_by,omitempty"`
	SubmissionData map[string]any      `json:"submission_data" bson:"submission_data"`
	Files          []SubmissionFile    `json:"files,omitempty" bson:"files,omitempty"`
	Metadata       Metadata            `json:"metadata" bson:"metadata"`
	Status         Status              `json:"status" bson:"status"`
	Notes          []Note              `json:"notes,omitempty" bson:"notes,omitempty"`
	// DedupeKey is set only for authenticated submissions to forms that
	// disallow multiple submissions; a unique sparse index on it turns the
	// duplicate check into an atomic insert-time guard.
	DedupeKey string `json:"-" bson:"dedupe_key,omitempty"`
}
