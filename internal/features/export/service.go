package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go-formhub/internal/features/form"
	"go-formhub/internal/features/submission"
	"go-formhub/internal/features/user"
	"go-formhub/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ExportService interface {
	ExportSubmissions(ctx context.Context, formID string, format string) ([]byte, string, error)
}

type ExportServiceImpl struct {
	FormRepo       form.FormRepository
	FieldRepo      form.FieldRepository
	SubmissionRepo submission.SubmissionRepository
	UserRepo       user.UserRepository
	Logger         *zap.Logger
}

func NewExportService(
	formRepo form.FormRepository,
	fieldRepo form.FieldRepository,
	submissionRepo submission.SubmissionRepository,
	userRepo user.UserRepository,
	logger *zap.Logger,
) ExportService {
	return &ExportServiceImpl{
		FormRepo:       formRepo,
		FieldRepo:      fieldRepo,
		SubmissionRepo: submissionRepo,
		UserRepo:       userRepo,
		Logger:         logger,
	}
}

func (s *ExportServiceImpl) ExportSubmissions(ctx context.Context, formID string, format string) ([]byte, string, error) {
	if format != "csv" && format != "xlsx" {
		return nil, "", fmt.Errorf("unsupported format: %s", format)
	}

	// Inactive forms stay exportable for admins
	f, err := s.FormRepo.FindByID(ctx, formID, true)
	if err != nil {
		return nil, "", err
	}

	fields, err := s.FieldRepo.FindByForm(ctx, f.ID, true)
	if err != nil {
		return nil, "", err
	}

	subs, err := s.SubmissionRepo.ListAllByForm(ctx, f.ID)
	if err != nil {
		return nil, "", err
	}

	resolve, err := s.submitterResolver(ctx, subs)
	if err != nil {
		return nil, "", err
	}

	header := Header(fields)
	rows := Rows(fields, subs, resolve)

	s.Logger.Info("exporting submissions",
		zap.String("formId", f.ID.Hex()),
		zap.String("format", format),
		zap.Int("rows", len(rows)))

	stamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_submissions_%s", utils.Slugify(f.Title), stamp)

	if format == "csv" {
		data, err := renderCSV(header, rows)
		return data, base + ".csv", err
	}
	data, err := renderExcel(header, rows)
	return data, base + ".xlsx", err
}

// submitterResolver batch-loads every distinct submitter once and answers
// from the map.
func (s *ExportServiceImpl) submitterResolver(ctx context.Context, subs []submission.Submission) (SubmitterResolver, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, sub := range subs {
		if sub.SubmittedBy != nil && !seen[*sub.SubmittedBy] {
			seen[*sub.SubmittedBy] = true
			ids = append(ids, *sub.SubmittedBy)
		}
	}

	users, err := s.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}

	return func(id primitive.ObjectID) string {
		return names[id]
	}, nil
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderExcel(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Submissions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, val)
		}
	}

	for i := range header {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
