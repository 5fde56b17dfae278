package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the top-level container for one ingested-source-to-mindmap
// lifecycle. Title stays nil until mindmap generation succeeds.
type Session struct {
	Id        uuid.UUID
	Title     *string
	CreatedAt time.Time
}
