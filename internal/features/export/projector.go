package export

import (
	"fmt"
	"sort"
	"strings"

	"go-formhub/internal/features/form"
	"go-formhub/internal/features/submission"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Anonymous is what the Submitted By column shows when a submission has no
// authenticated submitter.
const Anonymous = "Anonymous"

const timeLayout = "2006-01-02 15:04:05"

// SubmitterResolver maps a submitter ID to its display string, typically
// "First Last (email)". A nil resolver renders every submitter as Anonymous.
type SubmitterResolver func(id primitive.ObjectID) string

// Header returns the fixed leading columns followed by one column per active
// field, ordered by display order, using labels.
func Header(fields []form.FormField) []string {
	header := []string{"Submission ID", "Submitted At", "Submitted By"}
	for _, f := range activeOrdered(fields) {
		header = append(header, f.Label)
	}
	return header
}

// Rows flattens the submissions into one row each. Pure and deterministic:
// the same inputs produce byte-identical rows on every run.
func Rows(fields []form.FormField, subs []submission.Submission, resolve SubmitterResolver) [][]string {
	active := activeOrdered(fields)

	rows := make([][]string, 0, len(subs))
	for _, sub := range subs {
		row := make([]string, 0, 3+len(active))
		row = append(row,
			sub.ID.Hex(),
			sub.Metadata.SubmittedAt.UTC().Format(timeLayout),
			submitterLabel(sub.SubmittedBy, resolve),
		)
		for _, f := range active {
			row = append(row, cellValue(sub.SubmissionData[f.Name]))
		}
		rows = append(rows, row)
	}
	return rows
}

func activeOrdered(fields []form.FormField) []form.FormField {
	var active []form.FormField
	for _, f := range fields {
		if f.IsActive {
			active = append(active, f)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})
	return active
}

func submitterLabel(id *primitive.ObjectID, resolve SubmitterResolver) string {
	if id == nil || resolve == nil {
		return Anonymous
	}
	if label := resolve(*id); label != "" {
		return label
	}
	return Anonymous
}

// cellValue stringifies one submission value: lists join with ", ", absent
// values render empty, everything else via %v.
func cellValue(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	case primitive.A:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
