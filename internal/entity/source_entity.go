package entity

import (
	"time"

	"github.com/google/uuid"
)

// Source is one ingested material. Immutable once created.
type Source struct {
	Id        uuid.UUID
	Title     string
	Type      string // constant.SourceType value
	URL       string
	SessionId uuid.UUID
	CreatedAt time.Time
}
