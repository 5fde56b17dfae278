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

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatId).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	subQuery := r.db.Table("chats").Select("id").Where("session_id = ?", sessionId)
	return r.db.WithContext(ctx).Where("chat_id IN (?)", subQuery).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) FindByChatId(ctx context.Context, chatId uuid.UUID, desc bool) ([]*entity.Message, error) {
	order := "seq ASC"
	if desc {
		order = "seq DESC"
	}
	var models []*model.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatId).
		Order(order).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.Message, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *MessageRepositoryImpl) FindLast(ctx context.Context, chatId uuid.UUID) (*entity.Message, error) {
	var m model.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatId).
		Order("seq DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}
