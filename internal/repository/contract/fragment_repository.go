package contract

import (
	"context"

	"synaptiq-be/internal/entity"

	"github.com/google/uuid"
)

type FragmentRepository interface {
	CreateBulk(ctx context.Context, fragments []*entity.Fragment) error
	DeleteBySessionIdUnscoped(ctx context.Context, sessionId uuid.UUID) error

	// FindBySessionId returns every fragment of a session in chunk order.
	FindBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.Fragment, error)

	// SearchSimilar runs a cosine-distance nearest-neighbor query scoped to
	// one session, best matches first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*entity.Fragment, error)
}
