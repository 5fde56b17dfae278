package entity

import (
	"time"

	"github.com/google/uuid"
)

// Mindmap holds the serialized node tree for one session. The tree is
// immutable after generation; SchemaVersion identifies the node shape.
type Mindmap struct {
	Id            uuid.UUID
	SessionId     uuid.UUID
	Tree          string
	SchemaVersion string
	CreatedAt     time.Time
}
