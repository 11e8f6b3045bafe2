package scheduler

import (
	"context"
	"testing"
	"time"

	"go-formhub/internal/config"
	"go-formhub/internal/features/form"
	"go-formhub/internal/features/submission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeFormRepo struct {
	form.FormRepository
	forms    []form.Form
	setCalls map[primitive.ObjectID]form.FormStats
}

func (r *fakeFormRepo) List(ctx context.Context, includeInactive bool) ([]form.Form, error) {
	return r.forms, nil
}

func (r *fakeFormRepo) SetStats(ctx context.Context, id primitive.ObjectID, stats form.FormStats) error {
	if r.setCalls == nil {
		r.setCalls = make(map[primitive.ObjectID]form.FormStats)
	}
	r.setCalls[id] = stats
	return nil
}

type fakeSubmissionRepo struct {
	submission.SubmissionRepository
	counts  map[primitive.ObjectID]int64
	uniques map[primitive.ObjectID]int64
	last    map[primitive.ObjectID]*time.Time
}

func (r *fakeSubmissionRepo) CountByForm(ctx context.Context, formID primitive.ObjectID) (int64, error) {
	return r.counts[formID], nil
}

func (r *fakeSubmissionRepo) DistinctSubmitters(ctx context.Context, formID primitive.ObjectID) (int64, error) {
	return r.uniques[formID], nil
}

func (r *fakeSubmissionRepo) LastSubmittedAt(ctx context.Context, formID primitive.ObjectID) (*time.Time, error) {
	return r.last[formID], nil
}

func TestReconcileStats(t *testing.T) {
	driftedID := primitive.NewObjectID()
	cleanID := primitive.NewObjectID()
	lastAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	formRepo := &fakeFormRepo{
		forms: []form.Form{
			{ID: driftedID, Title: "Drifted", IsActive: true,
				Stats: form.FormStats{TotalSubmissions: 7}},
			{ID: cleanID, Title: "Clean", IsActive: true,
				Stats: form.FormStats{TotalSubmissions: 3, UniqueSubmitters: 2, LastSubmissionAt: &lastAt}},
		},
	}
	subRepo := &fakeSubmissionRepo{
		counts:  map[primitive.ObjectID]int64{driftedID: 5, cleanID: 3},
		uniques: map[primitive.ObjectID]int64{driftedID: 4, cleanID: 2},
		last:    map[primitive.ObjectID]*time.Time{driftedID: &lastAt, cleanID: &lastAt},
	}

	svc := &SchedulerServiceImpl{
		formRepo:       formRepo,
		submissionRepo: subRepo,
		config:         &config.Config{StatsCronSpec: "*/10 * * * *"},
		logger:         zap.NewNop(),
	}

	require.NoError(t, svc.ReconcileStats(context.Background()))

	// drifted counters rewritten from the collection
	drifted, ok := formRepo.setCalls[driftedID]
	require.True(t, ok, "drifted form should be reconciled")
	assert.Equal(t, int64(5), drifted.TotalSubmissions)
	assert.Equal(t, int64(4), drifted.UniqueSubmitters)

	// matching counters are left alone
	_, touched := formRepo.setCalls[cleanID]
	assert.False(t, touched, "clean form should not be rewritten")
}

func TestInitializeSchedulerRejectsBadSpec(t *testing.T) {
	svc := &SchedulerServiceImpl{
		config: &config.Config{StatsCronSpec: "not a cron spec"},
		logger: zap.NewNop(),
	}
	assert.Error(t, svc.InitializeScheduler(context.Background()))
}

func TestStatsEqual(t *testing.T) {
	at := time.Now()
	later := at.Add(time.Minute)

	assert.True(t, statsEqual(form.FormStats{}, form.FormStats{}))
	assert.True(t, statsEqual(
		form.FormStats{TotalSubmissions: 1, LastSubmissionAt: &at},
		form.FormStats{TotalSubmissions: 1, LastSubmissionAt: &at}))
	assert.False(t, statsEqual(
		form.FormStats{TotalSubmissions: 1},
		form.FormStats{TotalSubmissions: 2}))
	assert.False(t, statsEqual(
		form.FormStats{LastSubmissionAt: &at},
		form.FormStats{LastSubmissionAt: nil}))
	assert.False(t, statsEqual(
		form.FormStats{LastSubmissionAt: &at},
		form.FormStats{LastSubmissionAt: &later}))
}
