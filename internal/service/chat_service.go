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
	"synaptiq-be/pkg/rag/orchestrator"

	"github.com/google/uuid"
)

type IChatService interface {
	Create(ctx context.Context, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error)
	GetAll(ctx context.Context, sessionId uuid.UUID, nodeId int, chatType string) ([]*dto.GetChatsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *orchestrator.Orchestrator
	chatLocks    *memory.ChatLockRegistry
	log          logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	orch *orchestrator.Orchestrator,
	chatLocks *memory.ChatLockRegistry,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		orchestrator: orch,
		chatLocks:    chatLocks,
		log:          log,
	}
}

func (c *chatService) Create(ctx context.Context, req *dto.CreateChatRequest) (*dto.CreateChatResponse, error) {
	chatType, ok := constant.ParseChatType(req.Type)
	if !ok {
		return nil, apperror.NewValidation("unknown chat type: %s", req.Type)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFound("session %s not found", req.SessionId)
	}

	node, err := resolveNode(ctx, uow, req.SessionId, req.NodeId)
	if err != nil {
		return nil, err
	}

	chat := entity.Chat{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		NodeID:    req.NodeId,
		Type:      chatType,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatRepository().Create(ctx, &chat); err != nil {
		return nil, err
	}

	res := dto.CreateChatResponse{
		Id:     chat.Id,
		Type:   string(chat.Type),
		NodeId: chat.NodeID,
	}

	// A quiz chat opens with a question from the assistant. If seeding
	// fails the chat is removed again so no empty quiz is left behind.
	if chatType == constant.ChatTypeQuiz {
		reply, err := c.seedQuiz(ctx, uow, &chat, node)
		if err != nil {
			if deleteErr := uow.ChatRepository().Delete(ctx, chat.Id); deleteErr != nil {
				c.log.Warn("chat", "failed to delete chat after seed failure", map[string]interface{}{"chat_id": chat.Id, "error": deleteErr.Error()})
			}
			return nil, err
		}
		res.Messages = []dto.MessageResponse{*reply}
	}

	return &res, nil
}

func (c *chatService) seedQuiz(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, node *nodeContext) (*dto.MessageResponse, error) {
	answer, err := c.orchestrator.RunTurn(ctx, orchestrator.TurnInput{
		SessionId:       chat.SessionId,
		ChatType:        chat.Type,
		NodeTitle:       node.Title,
		NodeDescription: node.Description,
		Mindmap:         node.Tree,
		UserMessage:     constant.QuizSeedInstruction,
	})
	if err != nil {
		return nil, err
	}

	message := entity.Message{
		Id:        uuid.New(),
		ChatId:    chat.Id,
		Role:      constant.MessageRoleAssistant,
		Content:   answer,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{
		Id:        message.Id,
		Role:      message.Role,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}, nil
}

func (c *chatService) GetAll(ctx context.Context, sessionId uuid.UUID, nodeId int, chatType string) ([]*dto.GetChatsResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	}
	if nodeId > 0 {
		specs = append(specs, specification.ByNodeID{NodeID: nodeId})
	}
	if chatType != "" {
		parsed, ok := constant.ParseChatType(chatType)
		if !ok {
			return nil, apperror.NewValidation("unknown chat type: %s", chatType)
		}
		specs = append(specs, specification.ByChatType{Type: string(parsed)})
	}

	chats, err := uow.ChatRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetChatsResponse, 0, len(chats))
	for _, chat := range chats {
		item := &dto.GetChatsResponse{
			Id:        chat.Id,
			SessionId: chat.SessionId,
			NodeId:    chat.NodeID,
			Type:      string(chat.Type),
			CreatedAt: chat.CreatedAt,
		}
		// each listing entry carries its latest turn as a preview
		last, err := uow.MessageRepository().FindLast(ctx, chat.Id)
		if err != nil {
			return nil, err
		}
		if last != nil {
			item.LastMessage = messageToDTO(last)
		}
		res = append(res, item)
	}
	return res, nil
}

func (c *chatService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	chat, err := uow.ChatRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if chat == nil {
		return apperror.NewNotFound("chat %s not found", id)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteByChatId(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	c.chatLocks.Forget(id)
	return nil
}
