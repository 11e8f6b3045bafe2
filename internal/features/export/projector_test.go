package export

import (
	"testing"
	"time"

	"go-formhub/internal/features/form"
	"go-formhub/internal/features/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func projectorFixture() ([]form.FormField, []submission.Submission, primitive.ObjectID) {
	userID := primitive.NewObjectID()
	submittedAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	fields := []form.FormField{
		{Name: "comments", Label: "Comments", Type: form.FieldTypeTextArea, Order: 3, IsActive: true},
		{Name: "name", Label: "Name", Type: form.FieldTypeText, Order: 1, IsActive: true},
		{Name: "tags", Label: "Tags", Type: form.FieldTypeCheckbox, Order: 2, IsActive: true},
		{Name: "legacy", Label: "Legacy", Type: form.FieldTypeText, Order: 0, IsActive: false},
	}

	subs := []submission.Submission{
		{
			ID:          primitive.NewObjectID(),
			SubmittedBy: &userID,
			SubmissionData: map[string]any{
				"name":     "Ada",
				"tags":     []string{"a", "b"},
				"comments": "fine",
				"legacy":   "should not appear",
			},
			Metadata: submission.Metadata{SubmittedAt: submittedAt},
		},
		{
			ID: primitive.NewObjectID(),
			SubmissionData: map[string]any{
				"name": "Bob",
			},
			Metadata: submission.Metadata{SubmittedAt: submittedAt.Add(time.Hour)},
		},
	}

	return fields, subs, userID
}

func TestHeader(t *testing.T) {
	fields, _, _ := projectorFixture()

	// fixed columns first, then active fields by display order
	assert.Equal(t,
		[]string{"Submission ID", "Submitted At", "Submitted By", "Name", "Tags", "Comments"},
		Header(fields))
}

func TestRows(t *testing.T) {
	fields, subs, userID := projectorFixture()
	resolve := func(id primitive.ObjectID) string {
		if id == userID {
			return "Ada Lovelace (ada@example.com)"
		}
		return ""
	}

	rows := Rows(fields, subs, resolve)
	require.Len(t, rows, 2)

	header := Header(fields)
	for _, row := range rows {
		assert.Len(t, row, len(header))
	}

	assert.Equal(t, subs[0].ID.Hex(), rows[0][0])
	assert.Equal(t, "2026-03-14 09:26:53", rows[0][1])
	assert.Equal(t, "Ada Lovelace (ada@example.com)", rows[0][2])
	assert.Equal(t, "Ada", rows[0][3])
	assert.Equal(t, "a, b", rows[0][4], "list values join with comma-space")
	assert.Equal(t, "fine", rows[0][5])

	assert.Equal(t, Anonymous, rows[1][2])
	assert.Equal(t, "Bob", rows[1][3])
	assert.Equal(t, "", rows[1][4], "absent values render empty")
	assert.Equal(t, "", rows[1][5])
}

func TestRowsDeterministic(t *testing.T) {
	fields, subs, _ := projectorFixture()

	first := Rows(fields, subs, nil)
	second := Rows(fields, subs, nil)
	assert.Equal(t, first, second)
}

func TestRowsNilResolver(t *testing.T) {
	fields, subs, _ := projectorFixture()

	rows := Rows(fields, subs, nil)
	for _, row := range rows {
		assert.Equal(t, Anonymous, row[2])
	}
}

func TestRowsUnresolvedSubmitterFallsBack(t *testing.T) {
	fields, subs, _ := projectorFixture()

	rows := Rows(fields, subs, func(primitive.ObjectID) string { return "" })
	assert.Equal(t, Anonymous, rows[0][2])
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{name: "nil", val: nil, want: ""},
		{name: "string", val: "x", want: "x"},
		{name: "number", val: 4.5, want: "4.5"},
		{name: "bool", val: true, want: "true"},
		{name: "string slice", val: []string{"a", "b"}, want: "a, b"},
		{name: "any slice", val: []any{"a", 1}, want: "a, 1"},
		{name: "bson array", val: primitive.A{"a", "b"}, want: "a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellValue(tt.val))
		})
	}
}
