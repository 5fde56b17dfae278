package implementation

import (
	"context"
	"errors"

	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/mapper"
	"synaptiq-be/internal/model"
	"synaptiq-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MindmapRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewMindmapRepository(db *gorm.DB) contract.MindmapRepository {
	return &MindmapRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *MindmapRepositoryImpl) Create(ctx context.Context, mindmap *entity.Mindmap) error {
	m := r.mapper.MindmapToModel(mindmap)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*mindmap = *r.mapper.MindmapToEntity(m)
	return nil
}

func (r *MindmapRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.Mindmap{}).Error
}

func (r *MindmapRepositoryImpl) FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.Mindmap, error) {
	var m model.Mindmap
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MindmapToEntity(&m), nil
}
