package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one turn half in a chat. Seq is assigned by the store in
// insertion order and is the ordering key for history replay.
type Message struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	Role      string
	Content   string
	Seq       int64
	CreatedAt time.Time
}
