package implementation

import (
	"context"

	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/mapper"
	"synaptiq-be/internal/model"
	"synaptiq-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type FragmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FragmentMapper
}

func NewFragmentRepository(db *gorm.DB) contract.FragmentRepository {
	return &FragmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewFragmentMapper(),
	}
}

func (r *FragmentRepositoryImpl) CreateBulk(ctx context.Context, fragments []*entity.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}
	models := make([]*model.Fragment, len(fragments))
	for i, f := range fragments {
		models[i] = r.mapper.ToModel(f)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*fragments[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *FragmentRepositoryImpl) DeleteBySessionIdUnscoped(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().
		Where("session_id = ?", sessionId).
		Delete(&model.Fragment{}).Error
}

func (r *FragmentRepositoryImpl) FindBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.Fragment, error) {
	var models []*model.Fragment
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC, chunk_index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.Fragment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *FragmentRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*entity.Fragment, error) {
	if limit <= 0 {
		limit = 4
	}
	var models []*model.Fragment

	// pgvector cosine distance: embedding <=> vector, best matches first
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.Fragment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
