package service

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/pkg/logger"
	"synaptiq-be/internal/repository/specification"
	"synaptiq-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IFileService interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.UploadFileResponse, error)
	GetAll(ctx context.Context) ([]*dto.GetAllFilesResponse, error)
	Resolve(ctx context.Context, id uuid.UUID) (*entity.File, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type fileService struct {
	uowFactory unitofwork.RepositoryFactory
	uploadDir  string
	log        logger.ILogger
}

func NewFileService(uowFactory unitofwork.RepositoryFactory, uploadDir string, log logger.ILogger) IFileService {
	return &fileService{
		uowFactory: uowFactory,
		uploadDir:  uploadDir,
		log:        log,
	}
}

func (f *fileService) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.UploadFileResponse, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "application/pdf" && !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return nil, apperror.NewValidation("only pdf uploads are supported, got %s", contentType)
	}

	if err := os.MkdirAll(f.uploadDir, 0o755); err != nil {
		return nil, err
	}

	storedName := uuid.NewString() + ".pdf"
	destination := filepath.Join(f.uploadDir, storedName)
	if err := f.save(fileHeader, destination); err != nil {
		return nil, err
	}

	file := entity.File{
		Id:           uuid.New(),
		Filename:     storedName,
		OriginalName: fileHeader.Filename,
		ContentType:  "application/pdf",
		Size:         fileHeader.Size,
		CreatedAt:    time.Now(),
	}

	uow := f.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FileRepository().Create(ctx, &file); err != nil {
		// The row is the source of truth; an orphaned blob is cleaned up.
		if removeErr := os.Remove(destination); removeErr != nil {
			f.log.Warn("file", "failed to remove orphaned upload", map[string]interface{}{"path": destination, "error": removeErr.Error()})
		}
		return nil, err
	}

	return &dto.UploadFileResponse{
		Id:           file.Id,
		Filename:     file.Filename,
		OriginalName: file.OriginalName,
		ContentType:  file.ContentType,
		Size:         file.Size,
		CreatedAt:    file.CreatedAt,
	}, nil
}

func (f *fileService) save(fileHeader *multipart.FileHeader, destination string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (f *fileService) GetAll(ctx context.Context) ([]*dto.GetAllFilesResponse, error) {
	uow := f.uowFactory.NewUnitOfWork(ctx)
	files, err := uow.FileRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllFilesResponse, 0, len(files))
	for _, file := range files {
		res = append(res, &dto.GetAllFilesResponse{
			Id:           file.Id,
			OriginalName: file.OriginalName,
			ContentType:  file.ContentType,
			Size:         file.Size,
			CreatedAt:    file.CreatedAt,
		})
	}
	return res, nil
}

// Resolve returns the file row and its absolute path on disk.
func (f *fileService) Resolve(ctx context.Context, id uuid.UUID) (*entity.File, string, error) {
	uow := f.uowFactory.NewUnitOfWork(ctx)
	file, err := uow.FileRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, "", err
	}
	if file == nil {
		return nil, "", apperror.NewNotFound("file %s not found", id)
	}
	return file, filepath.Join(f.uploadDir, file.Filename), nil
}

func (f *fileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, path, err := f.Resolve(ctx, id)
	if err != nil {
		return err
	}

	uow := f.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FileRepository().Delete(ctx, file.Id); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		f.log.Warn("file", "failed to remove stored file", map[string]interface{}{"path": path, "error": err.Error()})
	}
	return nil
}
