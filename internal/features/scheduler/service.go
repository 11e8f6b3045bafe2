package scheduler

import (
	"context"
	"fmt"
	"time"

	"go-formhub/internal/config"
	"go-formhub/internal/features/form"
	"go-formhub/internal/features/submission"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerService runs periodic maintenance jobs. The stats
// reconciliation job recounts submissions per form so that counters
// drifted by crashes or manual deletes converge back to the truth.
type SchedulerService interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
	ReconcileStats(ctx context.Context) error
}

type SchedulerServiceImpl struct {
	formRepo       form.FormRepository
	submissionRepo submission.SubmissionRepository
	config         *config.Config
	logger         *zap.Logger

	scheduler *cron.Cron
}

func NewSchedulerService(
	formRepo form.FormRepository,
	submissionRepo submission.SubmissionRepository,
	cfg *config.Config,
	logger *zap.Logger,
) SchedulerService {
	return &SchedulerServiceImpl{
		formRepo:       formRepo,
		submissionRepo: submissionRepo,
		config:         cfg,
		logger:         logger,
	}
}

func (s *SchedulerServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.logger.Info("initializing scheduler", zap.String("statsSpec", s.config.StatsCronSpec))

	if _, err := cron.ParseStandard(s.config.StatsCronSpec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.config.StatsCronSpec, err)
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(s.config.StatsCronSpec, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.ReconcileStats(jobCtx); err != nil {
			s.logger.Error("stats reconciliation failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule stats job: %w", err)
	}

	s.scheduler.Start()
	return nil
}

func (s *SchedulerServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}

// ReconcileStats recomputes stored counters from the submissions
// collection for every form, active or not.
func (s *SchedulerServiceImpl) ReconcileStats(ctx context.Context) error {
	forms, err := s.formRepo.List(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to list forms: %w", err)
	}

	now := time.Now()
	reconciled := 0
	for i := range forms {
		f := &forms[i]

		total, err := s.submissionRepo.CountByForm(ctx, f.ID)
		if err != nil {
			s.logger.Error("failed to count submissions", zap.String("formId", f.ID.Hex()), zap.Error(err))
			continue
		}
		unique, err := s.submissionRepo.DistinctSubmitters(ctx, f.ID)
		if err != nil {
			s.logger.Error("failed to count submitters", zap.String("formId", f.ID.Hex()), zap.Error(err))
			continue
		}
		last, err := s.submissionRepo.LastSubmittedAt(ctx, f.ID)
		if err != nil {
			s.logger.Error("failed to read last submission time", zap.String("formId", f.ID.Hex()), zap.Error(err))
			continue
		}

		stats := form.FormStats{
			TotalSubmissions: total,
			UniqueSubmitters: unique,
			LastSubmissionAt: last,
		}
		if statsEqual(stats, f.Stats) {
			continue
		}

		if err := s.formRepo.SetStats(ctx, f.ID, stats); err != nil {
			s.logger.Error("failed to write stats", zap.String("formId", f.ID.Hex()), zap.Error(err))
			continue
		}
		reconciled++

		if f.Settings.EndDate != nil && f.Settings.EndDate.Before(now) && f.IsActive {
			s.logger.Info("form window closed",
				zap.String("formId", f.ID.Hex()),
				zap.Time("endDate", *f.Settings.EndDate))
		}
	}

	s.logger.Info("stats reconciliation complete",
		zap.Int("forms", len(forms)),
		zap.Int("updated", reconciled))
	return nil
}

func statsEqual(a, b form.FormStats) bool {
	if a.TotalSubmissions != b.TotalSubmissions || a.UniqueSubmitters != b.UniqueSubmitters {
		return false
	}
	if (a.LastSubmissionAt == nil) != (b.LastSubmissionAt == nil) {
		return false
	}
	if a.LastSubmissionAt != nil && !a.LastSubmissionAt.Equal(*b.LastSubmissionAt) {
		return false
	}
	return true
}
