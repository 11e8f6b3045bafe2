package form

import (
	"context"
	"fmt"
	"regexp"

	"go-formhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type FormService interface {
	CreateForm(ctx context.Context, form *Form, fields []FormField) (*FormWithFields, error)
	GetForm(ctx context.Context, id string, includeInactive bool) (*FormWithFields, error)
	// GetFormHistorical includes inactive fields so past submissions can be
	// joined against the field versions active when they were made.
	GetFormHistorical(ctx context.Context, id string) (*FormWithFields, error)
	ListForms(ctx context.Context, includeInactive bool) ([]Form, error)
	UpdateForm(ctx context.Context, id string, form *Form, fields []FormField) (*FormWithFields, error)
	DeleteForm(ctx context.Context, id string) error
}

type FormServiceImpl struct {
	FormRepo  FormRepository
	FieldRepo FieldRepository
	Logger    *zap.Logger
}

func NewFormService(formRepo FormRepository, fieldRepo FieldRepository, logger *zap.Logger) FormService {
	return &FormServiceImpl{
		FormRepo:  formRepo,
		FieldRepo: fieldRepo,
		Logger:    logger,
	}
}

func (s *FormServiceImpl) CreateForm(ctx context.Context, form *Form, fields []FormField) (*FormWithFields, error) {
	if form.Title == "" {
		return nil, fmt.Errorf("form title is required")
	}
	if err := ValidateFieldSet(fields); err != nil {
		return nil, err
	}

	if err := s.FormRepo.Create(ctx, form); err != nil {
		return nil, err
	}

	for i := range fields {
		fields[i].ID = primitive.ObjectID{}
		fields[i].FormID = form.ID
		if fields[i].Order == 0 {
			fields[i].Order = i
		}
	}
	if err := s.FieldRepo.CreateMany(ctx, fields); err != nil {
		return nil, err
	}

	s.Logger.Info("form created",
		zap.String("formId", form.ID.Hex()),
		zap.Int("fields", len(fields)))

	return s.GetForm(ctx, form.ID.Hex(), true)
}

func (s *FormServiceImpl) GetForm(ctx context.Context, id string, includeInactive bool) (*FormWithFields, error) {
	f, err := s.FormRepo.FindByID(ctx, id, includeInactive)
	if err != nil {
		return nil, err
	}

	fields, err := s.FieldRepo.FindByForm(ctx, f.ID, true)
	if err != nil {
		return nil, err
	}

	return &FormWithFields{Form: *f, Fields: fields}, nil
}

func (s *FormServiceImpl) GetFormHistorical(ctx context.Context, id string) (*FormWithFields, error) {
	f, err := s.FormRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	fields, err := s.FieldRepo.FindByForm(ctx, f.ID, false)
	if err != nil {
		return nil, err
	}

	return &FormWithFields{Form: *f, Fields: fields}, nil
}

func (s *FormServiceImpl) ListForms(ctx context.Context, includeInactive bool) ([]Form, error) {
	return s.FormRepo.List(ctx, includeInactive)
}

// UpdateForm applies the field replacement strategy: settings/title update in
// place, then every existing field is deactivated and the incoming list is
// either reactivated (when it carries an ID) or created fresh. Renamed fields
// without an ID become new fields; the old version stays inactive and keeps
// serving historical submissions.
func (s *FormServiceImpl) UpdateForm(ctx context.Context, id string, form *Form, fields []FormField) (*FormWithFields, error) {
	existing, err := s.FormRepo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if fields != nil {
		if err := ValidateFieldSet(fields); err != nil {
			return nil, err
		}
	}

	existing.Title = form.Title
	existing.Description = form.Description
	existing.Settings = form.Settings
	if err := s.FormRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	if fields != nil {
		if err := s.FieldRepo.DeactivateAll(ctx, existing.ID); err != nil {
			return nil, err
		}

		var created []FormField
		for i := range fields {
			fields[i].FormID = existing.ID
			if fields[i].Order == 0 {
				fields[i].Order = i
			}
			if fields[i].ID.IsZero() {
				created = append(created, fields[i])
				continue
			}
			if err := s.FieldRepo.Reactivate(ctx, &fields[i]); err != nil {
				return nil, err
			}
		}
		if err := s.FieldRepo.CreateMany(ctx, created); err != nil {
			return nil, err
		}

		s.Logger.Info("form fields replaced",
			zap.String("formId", existing.ID.Hex()),
			zap.Int("incoming", len(fields)),
			zap.Int("created", len(created)))
	}

	return s.GetForm(ctx, id, true)
}

// DeleteForm soft-deletes: the form goes inactive and its fields cascade.
// Submissions are untouched.
func (s *FormServiceImpl) DeleteForm(ctx context.Context, id string) error {
	if err := s.FormRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	if err := s.FieldRepo.DeactivateAll(ctx, oid); err != nil {
		return err
	}

	s.Logger.Info("form deactivated", zap.String("formId", id))
	return nil
}

// ValidateFieldSet enforces the schema invariants: valid storage names,
// per-form name uniqueness, option types carrying at least one option, and
// compilable patterns/scripts.
func ValidateFieldSet(fields []FormField) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !utils.IsValidFieldName(f.Name) {
			return fmt.Errorf("field name '%s' is invalid: letters, digits and underscores only", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate field name '%s'", f.Name)
		}
		seen[f.Name] = true

		switch f.Type {
		case FieldTypeText, FieldTypeNumber, FieldTypeEmail, FieldTypeTextArea,
			FieldTypeDropdown, FieldTypeCheckbox, FieldTypeRadio, FieldTypeFile:
		default:
			return fmt.Errorf("field '%s' has unknown type '%s'", f.Name, f.Type)
		}

		if OptionTypes[f.Type] && len(f.Options) == 0 {
			return fmt.Errorf("field '%s' of type %s must have at least one option", f.Name, f.Type)
		}

		if f.Validation.Pattern != "" {
			if _, err := regexp.Compile(f.Validation.Pattern); err != nil {
				return fmt.Errorf("field '%s' has an invalid pattern: %v", f.Name, err)
			}
		}
	}
	return nil
}
