package service

import (
	"context"
	"time"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/constant"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/pkg/logger"
	"synaptiq-be/internal/repository/memory"
	"synaptiq-be/internal/repository/specification"
	"synaptiq-be/internal/repository/unitofwork"
	"synaptiq-be/pkg/llm"
	"synaptiq-be/pkg/rag/orchestrator"

	"github.com/google/uuid"
)

type IMessageService interface {
	Send(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, chatId uuid.UUID) ([]*dto.MessageResponse, error)
}

type messageService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *orchestrator.Orchestrator
	chatLocks    *memory.ChatLockRegistry
	log          logger.ILogger
}

func NewMessageService(
	uowFactory unitofwork.RepositoryFactory,
	orch *orchestrator.Orchestrator,
	chatLocks *memory.ChatLockRegistry,
	log logger.ILogger,
) IMessageService {
	return &messageService{
		uowFactory:   uowFactory,
		orchestrator: orch,
		chatLocks:    chatLocks,
		log:          log,
	}
}

func (m *messageService) Send(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	// Turns on the same chat serialize so history stays a strict
	// user/assistant alternation.
	m.chatLocks.Lock(req.ChatId)
	defer m.chatLocks.Unlock(req.ChatId)

	uow := m.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: req.ChatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperror.NewNotFound("chat %s not found", req.ChatId)
	}

	node, err := resolveNode(ctx, uow, chat.SessionId, chat.NodeID)
	if err != nil {
		return nil, err
	}

	stored, err := uow.MessageRepository().FindByChatId(ctx, chat.Id, false)
	if err != nil {
		return nil, err
	}

	answer, err := m.orchestrator.RunTurn(ctx, orchestrator.TurnInput{
		SessionId:       chat.SessionId,
		ChatType:        chat.Type,
		NodeTitle:       node.Title,
		NodeDescription: node.Description,
		Mindmap:         node.Tree,
		History:         toLLMHistory(stored),
		UserMessage:     req.Content,
	})
	if err != nil {
		return nil, err
	}

	// Persist only after generation succeeded: a failed turn leaves no
	// trace in the history.
	sent := entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleUser,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, &sent); err != nil {
		return nil, err
	}

	reply := entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   answer,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, &reply); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{
		ChatId: chat.Id,
		Sent:   messageToDTO(&sent),
		Reply:  messageToDTO(&reply),
	}, nil
}

func (m *messageService) GetHistory(ctx context.Context, chatId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := m.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: chatId})
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, apperror.NewNotFound("chat %s not found", chatId)
	}

	stored, err := uow.MessageRepository().FindByChatId(ctx, chatId, false)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, 0, len(stored))
	for _, message := range stored {
		res = append(res, messageToDTO(message))
	}
	return res, nil
}

// toLLMHistory maps stored turns to provider messages. Only user and
// assistant roles replay; anything else stays out of the model context.
func toLLMHistory(stored []*entity.Message) []llm.Message {
	history := make([]llm.Message, 0, len(stored))
	for _, message := range stored {
		if message.Role != constant.MessageRoleUser && message.Role != constant.MessageRoleAssistant {
			continue
		}
		history = append(history, llm.Message{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	return history
}

func messageToDTO(message *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        message.Id,
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}
