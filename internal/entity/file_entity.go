package entity

import (
	"time"

	"github.com/google/uuid"
)

// File is an uploaded PDF stored on disk under its unique filename.
type File struct {
	Id           uuid.UUID
	Filename     string
	OriginalName string
	ContentType  string
	Size         int64
	CreatedAt    time.Time
}
