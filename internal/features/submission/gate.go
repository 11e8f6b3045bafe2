package submission

import (
	"time"

	common_models "go-formhub/internal/common/models"
	"go-formhub/internal/features/form"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gate messages are user-facing; handlers return them verbatim.
const (
	MsgFormNotFound     = "Form not found or inactive"
	MsgNotAccepting     = "This form is not currently accepting submissions"
	MsgLimitReached     = "Submission limit reached"
	MsgLoginRequired    = "Login required to submit this form"
	MsgAlreadySubmitted = "You have already submitted this form"
)

// CheckAcceptance decides whether a submission attempt is allowed at all,
// before any field-level validation runs. Checks run in order; each is a
// hard fail with its own message. hasPrior is only consulted for
// authenticated submitters; anonymous submissions are never deduplicated.
func CheckAcceptance(f *form.Form, now time.Time, submitter *primitive.ObjectID, hasPrior bool) error {
	switch f.Acceptance(now) {
	case form.NotActive:
		return common_models.AccessDenied(MsgFormNotFound)
	case form.OutsideWindow:
		return common_models.AccessDenied(MsgNotAccepting)
	case form.LimitReached:
		return common_models.AccessDenied(MsgLimitReached)
	}

	if f.Settings.RequireLogin && submitter == nil {
		return common_models.AccessDenied(MsgLoginRequired)
	}

	if !f.Settings.AllowMultipleSubmissions && submitter != nil && hasPrior {
		return common_models.AccessDenied(MsgAlreadySubmitted)
	}

	return nil
}
