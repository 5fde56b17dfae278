package dto

import "github.com/google/uuid"

// PublishPurgeSessionMessage asks the consumer to hard-delete the
// fragments of a deleted session.
type PublishPurgeSessionMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
