package submission

import (
	"testing"
	"time"

	common_models "go-formhub/internal/common/models"
	"go-formhub/internal/features/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func acceptingForm() *form.Form {
	return &form.Form{
		ID:       primitive.NewObjectID(),
		Title:    "Test",
		IsActive: true,
		Settings: form.FormSettings{AllowMultipleSubmissions: true},
	}
}

func gateMessage(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	require.True(t, common_models.IsAccessDenied(err), "expected access denied, got %T", err)
	return err.Error()
}

func TestCheckAcceptance(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	submitter := primitive.NewObjectID()

	t.Run("accepting form passes", func(t *testing.T) {
		assert.NoError(t, CheckAcceptance(acceptingForm(), now, nil, false))
	})

	t.Run("inactive form reads as not found", func(t *testing.T) {
		f := acceptingForm()
		f.IsActive = false
		assert.Equal(t, MsgFormNotFound, gateMessage(t, CheckAcceptance(f, now, nil, false)))
	})

	t.Run("before start date", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.StartDate = &tomorrow
		assert.Equal(t, MsgNotAccepting, gateMessage(t, CheckAcceptance(f, now, nil, false)))
	})

	t.Run("after end date", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.EndDate = &yesterday
		assert.Equal(t, MsgNotAccepting, gateMessage(t, CheckAcceptance(f, now, nil, false)))
	})

	t.Run("inside window", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.StartDate = &yesterday
		f.Settings.EndDate = &tomorrow
		assert.NoError(t, CheckAcceptance(f, now, nil, false))
	})

	t.Run("limit reached", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.SubmissionLimit = 10
		f.Stats.TotalSubmissions = 10
		assert.Equal(t, MsgLimitReached, gateMessage(t, CheckAcceptance(f, now, nil, false)))
	})

	t.Run("under the limit", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.SubmissionLimit = 10
		f.Stats.TotalSubmissions = 9
		assert.NoError(t, CheckAcceptance(f, now, nil, false))
	})

	t.Run("zero limit means unlimited", func(t *testing.T) {
		f := acceptingForm()
		f.Stats.TotalSubmissions = 1_000_000
		assert.NoError(t, CheckAcceptance(f, now, nil, false))
	})

	t.Run("login required rejects anonymous", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.RequireLogin = true
		assert.Equal(t, MsgLoginRequired, gateMessage(t, CheckAcceptance(f, now, nil, false)))
		assert.NoError(t, CheckAcceptance(f, now, &submitter, false))
	})

	t.Run("duplicate submitter rejected", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.AllowMultipleSubmissions = false
		assert.Equal(t, MsgAlreadySubmitted, gateMessage(t, CheckAcceptance(f, now, &submitter, true)))
		assert.NoError(t, CheckAcceptance(f, now, &submitter, false))
	})

	t.Run("anonymous never deduplicated", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.AllowMultipleSubmissions = false
		assert.NoError(t, CheckAcceptance(f, now, nil, true))
	})

	t.Run("window outranks login requirement", func(t *testing.T) {
		f := acceptingForm()
		f.Settings.RequireLogin = true
		f.Settings.EndDate = &yesterday
		assert.Equal(t, MsgNotAccepting, gateMessage(t, CheckAcceptance(f, now, nil, false)))
	})
}
