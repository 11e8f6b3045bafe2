package file

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is one stored upload. Uploads happen before the owning submission is
// created: the client uploads against a form + field name, then references
// the returned IDs in the submit payload.
type File struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	FormID       primitive.ObjectID  `json:"form_id" bson:"form_id"`
	FieldName    string              `json:"field_name" bson:"field_name"`
	OriginalName string              `json:"original_name" bson:"original_name"`
	StoredName   string              `json:"stored_name" bson:"stored_name"`
	Path         string              `json:"-" bson:"path"` // server file path
	URL          string              `json:"url" bson:"url"`
	Size         int64               `json:"size" bson:"size"`
	MIMEType     string              `json:"mime_type" bson:"mime_type"`
	UploadedBy   *primitive.ObjectID `json:"uploaded_by,omitempty" bson:"uploaded_by,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
}
