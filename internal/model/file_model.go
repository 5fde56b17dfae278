package model

import (
	"time"

	"github.com/google/uuid"
)

type File struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename     string    `gorm:"type:text;not null;uniqueIndex"`
	OriginalName string    `gorm:"type:text;not null"`
	ContentType  string    `gorm:"type:text;not null"`
	Size         int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (File) TableName() string {
	return "files"
}
