package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/constant"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(store *memStore) uuid.UUID {
	sessionId := uuid.New()
	title := "Photosynthesis"
	store.sessions[sessionId] = &entity.Session{Id: sessionId, Title: &title, CreatedAt: time.Now()}
	store.mindmaps[sessionId] = &entity.Mindmap{
		Id:            uuid.New(),
		SessionId:     sessionId,
		Tree:          seededTree,
		SchemaVersion: constant.MindmapSchemaVersion,
		CreatedAt:     time.Now(),
	}
	return sessionId
}

func newChatService(store *memStore, provider *stubLLM) IChatService {
	return NewChatService(&memFactory{store: store}, newTestOrchestrator(store, provider), memory.NewChatLockRegistry(), nopLogger{})
}

func TestChatCreateNormal(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	provider := &stubLLM{reply: "unused"}
	svc := newChatService(store, provider)

	res, err := svc.Create(context.Background(), &dto.CreateChatRequest{
		SessionId: sessionId,
		NodeId:    2,
		Type:      "normal",
	})
	require.NoError(t, err)

	assert.Equal(t, "normal", res.Type)
	assert.Equal(t, 2, res.NodeId)
	assert.Empty(t, res.Messages)
	assert.Len(t, store.chats, 1)
	assert.Empty(t, store.messages)
	// a normal chat never touches the model at creation
	assert.Zero(t, provider.calls())
}

func TestChatCreateQuizSeedsAssistantQuestion(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	provider := &stubLLM{reply: "What pigment captures light energy?"}
	svc := newChatService(store, provider)

	res, err := svc.Create(context.Background(), &dto.CreateChatRequest{
		SessionId: sessionId,
		NodeId:    1,
		Type:      "quiz",
	})
	require.NoError(t, err)

	require.Len(t, res.Messages, 1)
	assert.Equal(t, constant.MessageRoleAssistant, res.Messages[0].Role)
	assert.Equal(t, "What pigment captures light energy?", res.Messages[0].Content)

	// only the assistant question is persisted, not the seed instruction
	require.Len(t, store.messages, 1)
	assert.Equal(t, constant.MessageRoleAssistant, store.messages[0].Role)

	// the model saw the synthetic instruction as the user turn, with the
	// full serialized tree in its system prompt
	require.Equal(t, 1, provider.calls())
	seen := provider.histories[0]
	assert.Equal(t, constant.QuizSeedInstruction, seen[len(seen)-1].Content)
	assert.Equal(t, constant.MessageRoleSystem, seen[0].Role)
	assert.Contains(t, seen[0].Content, seededTree)
}

func TestChatCreateQuizSeedFailureDeletesChat(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	provider := &stubLLM{err: errors.New("model unavailable")}
	svc := newChatService(store, provider)

	_, err := svc.Create(context.Background(), &dto.CreateChatRequest{
		SessionId: sessionId,
		NodeId:    1,
		Type:      "quiz",
	})
	require.Error(t, err)

	assert.Empty(t, store.chats)
	assert.Empty(t, store.messages)
}

func TestChatCreateUnknownType(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	svc := newChatService(store, &stubLLM{})

	_, err := svc.Create(context.Background(), &dto.CreateChatRequest{
		SessionId: sessionId,
		NodeId:    1,
		Type:      "debate",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, store.chats)
}

func TestChatCreateMissingSession(t *testing.T) {
	store := newMemStore()
	svc := newChatService(store, &stubLLM{})

	_, err := svc.Create(context.Background(), &dto.CreateChatRequest{
		SessionId: uuid.New(),
		NodeId:    1,
		Type:      "normal",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestChatCreateMissingNode(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	svc := newChatService(store, &stubLLM{})

	_, err := svc.Create(context.Background(), &dto.CreateChatRequest{
		SessionId: sessionId,
		NodeId:    99,
		Type:      "normal",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, store.chats)
}

func TestChatGetAllFilters(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	svc := newChatService(store, &stubLLM{})

	node1Normal := &entity.Chat{Id: uuid.New(), SessionId: sessionId, NodeID: 1, Type: constant.ChatTypeNormal, CreatedAt: time.Now()}
	node2Normal := &entity.Chat{Id: uuid.New(), SessionId: sessionId, NodeID: 2, Type: constant.ChatTypeNormal, CreatedAt: time.Now().Add(time.Second)}
	node2Quiz := &entity.Chat{Id: uuid.New(), SessionId: sessionId, NodeID: 2, Type: constant.ChatTypeQuiz, CreatedAt: time.Now().Add(2 * time.Second)}
	for _, chat := range []*entity.Chat{node1Normal, node2Normal, node2Quiz} {
		store.chats[chat.Id] = chat
	}

	all, err := svc.GetAll(context.Background(), sessionId, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	node2, err := svc.GetAll(context.Background(), sessionId, 2, "")
	require.NoError(t, err)
	assert.Len(t, node2, 2)

	quizzes, err := svc.GetAll(context.Background(), sessionId, 2, "quiz")
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, node2Quiz.Id, quizzes[0].Id)

	_, err = svc.GetAll(context.Background(), sessionId, 0, "debate")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestChatGetAllLastMessagePreview(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	svc := newChatService(store, &stubLLM{})

	active := seedChat(store, sessionId, constant.ChatTypeNormal)
	empty := seedChat(store, sessionId, constant.ChatTypeNormal)
	store.messages = append(store.messages,
		&entity.Message{Id: uuid.New(), ChatId: active, Role: constant.MessageRoleUser, Content: "question", Seq: 1},
		&entity.Message{Id: uuid.New(), ChatId: active, Role: constant.MessageRoleAssistant, Content: "answer", Seq: 2},
	)

	all, err := svc.GetAll(context.Background(), sessionId, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	byId := map[uuid.UUID]*dto.GetChatsResponse{all[0].Id: all[0], all[1].Id: all[1]}
	require.NotNil(t, byId[active].LastMessage)
	assert.Equal(t, "answer", byId[active].LastMessage.Content)
	assert.Equal(t, constant.MessageRoleAssistant, byId[active].LastMessage.Role)
	assert.Nil(t, byId[empty].LastMessage)
}

func TestChatDelete(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	svc := newChatService(store, &stubLLM{})

	chatId := uuid.New()
	store.chats[chatId] = &entity.Chat{Id: chatId, SessionId: sessionId, NodeID: 1, Type: constant.ChatTypeNormal, CreatedAt: time.Now()}
	store.messages = append(store.messages,
		&entity.Message{Id: uuid.New(), ChatId: chatId, Role: constant.MessageRoleUser, Content: "hi", Seq: 1},
		&entity.Message{Id: uuid.New(), ChatId: chatId, Role: constant.MessageRoleAssistant, Content: "hello", Seq: 2},
	)

	require.NoError(t, svc.Delete(context.Background(), chatId))
	assert.Empty(t, store.chats)
	assert.Empty(t, store.messages)

	err := svc.Delete(context.Background(), chatId)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
