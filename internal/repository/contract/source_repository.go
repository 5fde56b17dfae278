package contract

import (
	"context"

	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SourceRepository interface {
	Create(ctx context.Context, source *entity.Source) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error)
}
