package contract

import (
	"context"

	"synaptiq-be/internal/entity"

	"github.com/google/uuid"
)

type MindmapRepository interface {
	Create(ctx context.Context, mindmap *entity.Mindmap) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.Mindmap, error)
}
