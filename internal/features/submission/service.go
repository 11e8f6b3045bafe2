package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "go-formhub/internal/common/models"
	"go-formhub/internal/features/file"
	"go-formhub/internal/features/form"
	"go-formhub/internal/features/webhook"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Broadcaster pushes submission events to connected admin clients. Satisfied
// by the system websocket hub through an adapter in main.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// SubmitInput is one submission attempt: raw field values plus references to
// files uploaded beforehand.
type SubmitInput struct {
	Data           map[string]any `json:"data"`
	FileIDs        []string       `json:"file_ids,omitempty"`
	CompletionTime int64          `json:"completion_time,omitempty"`
}

type SubmissionDetail struct {
	Submission Submission       `json:"submission"`
	Fields     []form.FormField `json:"fields"` // full set, inactive included
}

type SubmissionService interface {
	Submit(ctx context.Context, formID string, input SubmitInput, submitter *primitive.ObjectID, ip, userAgent string) (*Submission, error)
	ListSubmissions(ctx context.Context, formID string, status Status, page, limit int64) ([]Submission, int64, error)
	GetSubmission(ctx context.Context, id string) (*SubmissionDetail, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddNote(ctx context.Context, id string, content string, author primitive.ObjectID) error
	DeleteSubmission(ctx context.Context, id string) error
}

type SubmissionServiceImpl struct {
	FormRepo       form.FormRepository
	FieldRepo      form.FieldRepository
	SubmissionRepo SubmissionRepository
	FileRepo       file.FileRepository
	WebhookService webhook.WebhookService
	Broadcaster    Broadcaster
	Logger         *zap.Logger
}

func NewSubmissionService(
	formRepo form.FormRepository,
	fieldRepo form.FieldRepository,
	submissionRepo SubmissionRepository,
	fileRepo file.FileRepository,
	webhookService webhook.WebhookService,
	broadcaster Broadcaster,
	logger *zap.Logger,
) SubmissionService {
	return &SubmissionServiceImpl{
		FormRepo:       formRepo,
		FieldRepo:      fieldRepo,
		SubmissionRepo: submissionRepo,
		FileRepo:       fileRepo,
		WebhookService: webhookService,
		Broadcaster:    broadcaster,
		Logger:         logger,
	}
}

func (s *SubmissionServiceImpl) Submit(ctx context.Context, formID string, input SubmitInput, submitter *primitive.ObjectID, ip, userAgent string) (*Submission, error) {
	now := time.Now()

	// 1. Fetch the schema snapshot
	f, err := s.FormRepo.FindByID(ctx, formID, false)
	if err != nil {
		return nil, err
	}

	// 2. Acceptance gate. The duplicate pre-check here is the friendly path;
	// the unique index closes the race at insert time.
	hasPrior := false
	if submitter != nil && !f.Settings.AllowMultipleSubmissions {
		hasPrior, err = s.SubmissionRepo.HasSubmitted(ctx, f.ID, *submitter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common_models.ErrPersistenceFailure, err)
		}
	}
	if err := CheckAcceptance(f, now, submitter, hasPrior); err != nil {
		return nil, err
	}

	// 3. Field-level validation against active fields only
	fields, err := s.FieldRepo.FindByForm(ctx, f.ID, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common_models.ErrPersistenceFailure, err)
	}

	filesByField, subFiles, err := s.resolveFiles(ctx, f.ID, input.FileIDs)
	if err != nil {
		return nil, err
	}

	result := ValidateWithFiles(fields, input.Data, filesByField)
	if !result.Valid() {
		return nil, &common_models.ValidationError{Messages: result.Errors}
	}

	sub := &Submission{
		FormID:         f.ID,
		SubmittedBy:    submitter,
		SubmissionData: result.Data,
		Files:          subFiles,
		Metadata: Metadata{
			IPAddress:      ip,
			UserAgent:      userAgent,
			SubmittedAt:    now,
			CompletionTime: input.CompletionTime,
		},
		Status: StatusPending,
	}
	if submitter != nil && !f.Settings.AllowMultipleSubmissions {
		sub.DedupeKey = f.ID.Hex() + "/" + submitter.Hex()
	}

	// 4. Conditional counter first: the limit check and the increment are one
	// atomic write, so concurrent submitters cannot overshoot the limit.
	if err := s.FormRepo.IncrementStats(ctx, f.ID, now); err != nil {
		if errors.Is(err, form.ErrLimitReached) {
			return nil, common_models.AccessDenied(MsgLimitReached)
		}
		return nil, fmt.Errorf("%w: %v", common_models.ErrPersistenceFailure, err)
	}

	// 5. Insert. A duplicate-key rejection means we lost the race to another
	// submission by the same user; roll the counter back.
	if err := s.SubmissionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, ErrDuplicate) {
			if derr := s.FormRepo.DecrementStats(ctx, f.ID); derr != nil {
				s.Logger.Warn("failed to roll back stats counter",
					zap.String("formId", f.ID.Hex()), zap.Error(derr))
			}
			return nil, common_models.AccessDenied(MsgAlreadySubmitted)
		}
		return nil, fmt.Errorf("%w: %v", common_models.ErrPersistenceFailure, err)
	}

	s.Logger.Info("submission created",
		zap.String("formId", f.ID.Hex()),
		zap.String("submissionId", sub.ID.Hex()),
		zap.String("ip", ip))

	go func() {
		payload := webhook.Payload{
			Event:        "submission.created",
			FormID:       f.ID.Hex(),
			SubmissionID: sub.ID.Hex(),
			Data:         sub.SubmissionData,
			Timestamp:    now,
		}
		s.WebhookService.Trigger(context.Background(), "submission.created", payload)
		s.Broadcaster.Broadcast("submission.created", payload)
	}()

	return sub, nil
}

// resolveFiles loads the referenced uploads and groups them by declared
// field name. Files uploaded against a different form are rejected.
func (s *SubmissionServiceImpl) resolveFiles(ctx context.Context, formID primitive.ObjectID, fileIDs []string) (map[string][]SubmissionFile, []SubmissionFile, error) {
	if len(fileIDs) == 0 {
		return nil, nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(fileIDs))
	for _, id := range fileIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, nil, &common_models.ValidationError{Messages: []string{fmt.Sprintf("invalid file reference %q", id)}}
		}
		oids = append(oids, oid)
	}

	stored, err := s.FileRepo.FindByIDs(ctx, oids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common_models.ErrPersistenceFailure, err)
	}

	byField := make(map[string][]SubmissionFile)
	var all []SubmissionFile
	for _, sf := range stored {
		if sf.FormID != formID {
			return nil, nil, &common_models.ValidationError{Messages: []string{fmt.Sprintf("file %s does not belong to this form", sf.OriginalName)}}
		}
		entry := SubmissionFile{
			FieldName:    sf.FieldName,
			OriginalName: sf.OriginalName,
			StoredName:   sf.StoredName,
			Size:         sf.Size,
			MimeType:     sf.MIMEType,
		}
		byField[sf.FieldName] = append(byField[sf.FieldName], entry)
		all = append(all, entry)
	}
	return byField, all, nil
}

func (s *SubmissionServiceImpl) ListSubmissions(ctx context.Context, formID string, status Status, page, limit int64) ([]Submission, int64, error) {
	f, err := s.FormRepo.FindByID(ctx, formID, true)
	if err != nil {
		return nil, 0, err
	}
	return s.SubmissionRepo.FindByForm(ctx, f.ID, status, page, limit)
}

// GetSubmission returns the record together with the owning form's full
// field set, inactive versions included, so values keyed by superseded
// fields still render.
func (s *SubmissionServiceImpl) GetSubmission(ctx context.Context, id string) (*SubmissionDetail, error) {
	sub, err := s.SubmissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := s.FieldRepo.FindByForm(ctx, sub.FormID, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common_models.ErrPersistenceFailure, err)
	}

	return &SubmissionDetail{Submission: *sub, Fields: fields}, nil
}

func (s *SubmissionServiceImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status '%s'", status)
	}
	return s.SubmissionRepo.UpdateStatus(ctx, id, status)
}

func (s *SubmissionServiceImpl) AddNote(ctx context.Context, id string, content string, author primitive.ObjectID) error {
	if content == "" {
		return fmt.Errorf("note content is required")
	}
	return s.SubmissionRepo.AddNote(ctx, id, Note{
		Content:   content,
		Author:    author,
		CreatedAt: time.Now(),
	})
}

func (s *SubmissionServiceImpl) DeleteSubmission(ctx context.Context, id string) error {
	return s.SubmissionRepo.Delete(ctx, id)
}
