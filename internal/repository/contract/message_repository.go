package contract

import (
	"context"

	"synaptiq-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteByChatId(ctx context.Context, chatId uuid.UUID) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error

	// FindByChatId returns a chat's messages ordered by sequence; desc flips
	// the ordering.
	FindByChatId(ctx context.Context, chatId uuid.UUID, desc bool) ([]*entity.Message, error)
	FindLast(ctx context.Context, chatId uuid.UUID) (*entity.Message, error)
}
