package main

import (
	"context"

	"go-formhub/internal/config"
	"go-formhub/internal/database"
	"go-formhub/internal/features/form"
	"go-formhub/internal/features/user"
	"go-formhub/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// Seed creates an admin account and a demo feedback form, then shuts
// the app down. Existing data is left alone so the command is safe to
// re-run.
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	formService form.FormService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				admin, err := seedAdmin(ctx, userRepo, logger)
				if err != nil {
					logger.Error("Failed to seed admin user", zap.Error(err))
					return
				}

				if err := seedDemoForm(ctx, formService, admin, logger); err != nil {
					logger.Error("Failed to seed demo form", zap.Error(err))
					return
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seedAdmin(ctx context.Context, userRepo user.UserRepository, logger *zap.Logger) (*user.User, error) {
	const adminEmail = "admin@formhub.local"

	existing, err := userRepo.FindByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("Admin user exists, skipping", zap.String("email", adminEmail))
		return existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &user.User{
		Email:     adminEmail,
		Password:  string(hashed),
		FirstName: "Admin",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	logger.Info("Admin user created", zap.String("email", adminEmail))
	return admin, nil
}

func seedDemoForm(ctx context.Context, formService form.FormService, admin *user.User, logger *zap.Logger) error {
	forms, err := formService.ListForms(ctx, true)
	if err != nil {
		return err
	}
	if len(forms) > 0 {
		logger.Info("Forms exist, skipping demo form")
		return nil
	}

	demo := &form.Form{
		Title:       "Product Feedback",
		Description: "Tell us what you think about the product.",
		Settings: form.FormSettings{
			AllowMultipleSubmissions: false,
			ConfirmationMessage:      "Thanks for your feedback!",
		},
		CreatedBy: admin.ID,
	}

	fields := []form.FormField{
		{
			Name:       "full_name",
			Label:      "Full Name",
			Type:       form.FieldTypeText,
			Order:      1,
			Validation: form.FieldValidation{Required: true, MinLength: intPtr(2), MaxLength: intPtr(100)},
		},
		{
			Name:       "email",
			Label:      "Email",
			Type:       form.FieldTypeEmail,
			Order:      2,
			Validation: form.FieldValidation{Required: true},
		},
		{
			Name:       "rating",
			Label:      "Rating",
			Type:       form.FieldTypeNumber,
			Order:      3,
			Validation: form.FieldValidation{Required: true, Min: floatPtr(1), Max: floatPtr(10)},
		},
		{
			Name:  "category",
			Label: "Category",
			Type:  form.FieldTypeDropdown,
			Order: 4,
			Options: []form.FieldOption{
				{Label: "Bug report", Value: "bug"},
				{Label: "Feature request", Value: "feature"},
				{Label: "General feedback", Value: "general"},
			},
			Validation: form.FieldValidation{Required: true},
		},
		{
			Name:  "channels",
			Label: "How did you hear about us?",
			Type:  form.FieldTypeCheckbox,
			Order: 5,
			Options: []form.FieldOption{
				{Label: "Search engine", Value: "search"},
				{Label: "Social media", Value: "social"},
				{Label: "A friend", Value: "friend"},
			},
		},
		{
			Name:       "comments",
			Label:      "Comments",
			Type:       form.FieldTypeTextArea,
			Order:      6,
			Validation: form.FieldValidation{MaxLength: intPtr(2000)},
		},
	}

	created, err := formService.CreateForm(ctx, demo, fields)
	if err != nil {
		return err
	}

	logger.Info("Demo form created",
		zap.String("formId", created.ID.Hex()),
		zap.Int("fields", len(created.Fields)))
	return nil
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			user.NewUserRepository,
			form.NewFormRepository,
			form.NewFieldRepository,
			form.NewFormService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
