package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadFileResponse struct {
	Id           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

type GetAllFilesResponse struct {
	Id           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

type DeleteFileResponse struct {
	Id uuid.UUID `json:"id"`
}
