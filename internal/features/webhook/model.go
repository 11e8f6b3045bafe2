package webhook

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Webhook represents a URL subscription for specific events
type Webhook struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	URL         string             `json:"url" bson:"url"`
	Secret      string             `json:"secret,omitempty" bson:"secret,omitempty"` // For HMAC signature
	Events      []string           `json:"events" bson:"events"`
	FormID      primitive.ObjectID `json:"form_id,omitempty" bson:"form_id,omitempty"` // Optional: limit to one form
	IsActive    bool               `json:"is_active" bson:"is_active"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	CreatedBy primitive.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Payload is the JSON body delivered to subscribed URLs.
type Payload struct {
	Event        string         `json:"event"`
	FormID       string         `json:"form_id"`
	SubmissionID string         `json:"submission_id,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}
