package entity

import (
	"time"

	"github.com/google/uuid"
)

// Fragment is one indexed chunk of source text with its embedding vector.
type Fragment struct {
	Id         uuid.UUID
	Document   string
	Embedding  []float32
	SessionId  uuid.UUID
	SourceId   uuid.UUID
	ChunkIndex int
	CreatedAt  time.Time
}
