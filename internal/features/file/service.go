package file

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"go-formhub/internal/config"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileService interface {
	SaveUpload(ctx context.Context, header *multipart.FileHeader, formID primitive.ObjectID, fieldName string, uploadedBy *primitive.ObjectID) (*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

type FileServiceImpl struct {
	FileRepo FileRepository
	Config   *config.Config
}

func NewFileService(fileRepo FileRepository, cfg *config.Config) FileService {
	return &FileServiceImpl{
		FileRepo: fileRepo,
		Config:   cfg,
	}
}

// SaveUpload writes the uploaded bytes to disk under a uuid name and records
// metadata. Per-field constraints (types, size, counts) are enforced later
// at submit time against the field schema; this only applies the global cap.
func (s *FileServiceImpl) SaveUpload(ctx context.Context, header *multipart.FileHeader, formID primitive.ObjectID, fieldName string, uploadedBy *primitive.ObjectID) (*File, error) {
	maxBytes := int64(s.Config.MaxUploadMB) << 20
	if header.Size > maxBytes {
		return nil, fmt.Errorf("file too large (max %dMB)", s.Config.MaxUploadMB)
	}

	if err := os.MkdirAll(s.Config.UploadPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	dst := filepath.Join(s.Config.UploadPath, storedName)

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(dst)
		return nil, err
	}

	f := &File{
		FormID:       formID,
		FieldName:    fieldName,
		OriginalName: header.Filename,
		StoredName:   storedName,
		Path:         dst,
		URL:          s.Config.UploadURL + "/" + storedName,
		Size:         header.Size,
		MIMEType:     header.Header.Get("Content-Type"),
		UploadedBy:   uploadedBy,
	}
	if err := s.FileRepo.Save(ctx, f); err != nil {
		os.Remove(dst)
		return nil, err
	}

	return f, nil
}

func (s *FileServiceImpl) GetFile(ctx context.Context, fileID string) (*File, error) {
	return s.FileRepo.Get(ctx, fileID)
}

func (s *FileServiceImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]File, error) {
	return s.FileRepo.FindByIDs(ctx, ids)
}

func (s *FileServiceImpl) DeleteFile(ctx context.Context, fileID string) error {
	f, err := s.FileRepo.Get(ctx, fileID)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file from disk: %w", err)
	}

	return s.FileRepo.Delete(ctx, fileID)
}
