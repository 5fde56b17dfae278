package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Mindmap struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"` // one mindmap per session
	Tree          datatypes.JSON `gorm:"not null"`
	SchemaVersion string         `gorm:"type:text;not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (Mindmap) TableName() string {
	return "mindmaps"
}
