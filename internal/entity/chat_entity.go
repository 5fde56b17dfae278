package entity

import (
	"time"

	"github.com/google/uuid"

	"synaptiq-be/internal/constant"
)

// Chat is one conversational thread scoped to a single mindmap node and a
// fixed interaction mode.
type Chat struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	NodeID    int
	Type      constant.ChatType
	CreatedAt time.Time
}
