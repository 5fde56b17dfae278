package model

import (
	"time"

	"github.com/google/uuid"
)

type Source struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string    `gorm:"type:text;not null"`
	Type      string    `gorm:"type:text;not null"` // youtube | pdf | web_page
	URL       string    `gorm:"type:text;not null"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Source) TableName() string {
	return "sources"
}
