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

func seedChat(store *memStore, sessionId uuid.UUID, chatType constant.ChatType) uuid.UUID {
	chatId := uuid.New()
	store.chats[chatId] = &entity.Chat{
		Id:        chatId,
		SessionId: sessionId,
		NodeID:    1,
		Type:      chatType,
		CreatedAt: time.Now(),
	}
	return chatId
}

func newMessageService(store *memStore, provider *stubLLM) IMessageService {
	return NewMessageService(
		&memFactory{store: store},
		newTestOrchestrator(store, provider),
		memory.NewChatLockRegistry(),
		nopLogger{},
	)
}

func TestSendPersistsUserThenAssistant(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	chatId := seedChat(store, sessionId, constant.ChatTypeNormal)
	provider := &stubLLM{reply: "Chlorophyll absorbs red and blue light."}
	svc := newMessageService(store, provider)

	res, err := svc.Send(context.Background(), &dto.SendMessageRequest{
		ChatId:  chatId,
		Content: "What does chlorophyll do?",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.MessageRoleUser, res.Sent.Role)
	assert.Equal(t, "What does chlorophyll do?", res.Sent.Content)
	assert.Equal(t, constant.MessageRoleAssistant, res.Reply.Role)
	assert.Equal(t, "Chlorophyll absorbs red and blue light.", res.Reply.Content)

	require.Len(t, store.messages, 2)
	assert.Equal(t, constant.MessageRoleUser, store.messages[0].Role)
	assert.Equal(t, constant.MessageRoleAssistant, store.messages[1].Role)
	assert.Less(t, store.messages[0].Seq, store.messages[1].Seq)
}

func TestSendSystemPromptCarriesTree(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	chatId := seedChat(store, sessionId, constant.ChatTypeNormal)
	provider := &stubLLM{reply: "grounded answer"}
	svc := newMessageService(store, provider)

	_, err := svc.Send(context.Background(), &dto.SendMessageRequest{
		ChatId:  chatId,
		Content: "walk me through the stages",
	})
	require.NoError(t, err)

	// the session's whole serialized tree rides along in the system
	// prompt, not just the anchor node
	require.Equal(t, 1, provider.calls())
	system := provider.histories[0][0]
	assert.Equal(t, constant.MessageRoleSystem, system.Role)
	assert.Contains(t, system.Content, seededTree)
	assert.Contains(t, system.Content, "Light Reactions")
}

func TestSendFailureLeavesNoTrace(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	chatId := seedChat(store, sessionId, constant.ChatTypeNormal)
	provider := &stubLLM{err: errors.New("model unavailable")}
	svc := newMessageService(store, provider)

	_, err := svc.Send(context.Background(), &dto.SendMessageRequest{
		ChatId:  chatId,
		Content: "hello?",
	})
	require.Error(t, err)

	// not even the user message survives a failed turn
	assert.Empty(t, store.messages)
}

func TestSendReplaysHistoryInOrder(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	chatId := seedChat(store, sessionId, constant.ChatTypeNormal)
	store.messages = append(store.messages,
		&entity.Message{Id: uuid.New(), ChatId: chatId, Role: constant.MessageRoleUser, Content: "first question", Seq: 1},
		&entity.Message{Id: uuid.New(), ChatId: chatId, Role: constant.MessageRoleAssistant, Content: "first answer", Seq: 2},
	)
	store.nextSeq = 2
	provider := &stubLLM{reply: "second answer"}
	svc := newMessageService(store, provider)

	_, err := svc.Send(context.Background(), &dto.SendMessageRequest{
		ChatId:  chatId,
		Content: "second question",
	})
	require.NoError(t, err)

	require.Equal(t, 1, provider.calls())
	seen := provider.histories[0]
	// system prompt, two replayed turns, then the new user message
	require.Len(t, seen, 4)
	assert.Equal(t, constant.MessageRoleSystem, seen[0].Role)
	assert.Equal(t, "first question", seen[1].Content)
	assert.Equal(t, "first answer", seen[2].Content)
	assert.Equal(t, "second question", seen[3].Content)
}

func TestSendMissingChat(t *testing.T) {
	store := newMemStore()
	seedSession(store)
	svc := newMessageService(store, &stubLLM{})

	_, err := svc.Send(context.Background(), &dto.SendMessageRequest{
		ChatId:  uuid.New(),
		Content: "anyone there?",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetHistoryOrderedBySeq(t *testing.T) {
	store := newMemStore()
	sessionId := seedSession(store)
	chatId := seedChat(store, sessionId, constant.ChatTypeNormal)
	// inserted out of order on purpose
	store.messages = append(store.messages,
		&entity.Message{Id: uuid.New(), ChatId: chatId, Role: constant.MessageRoleAssistant, Content: "answer", Seq: 2},
		&entity.Message{Id: uuid.New(), ChatId: chatId, Role: constant.MessageRoleUser, Content: "question", Seq: 1},
	)
	svc := newMessageService(store, &stubLLM{})

	history, err := svc.GetHistory(context.Background(), chatId)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "question", history[0].Content)
	assert.Equal(t, "answer", history[1].Content)
}

func TestGetHistoryMissingChat(t *testing.T) {
	store := newMemStore()
	svc := newMessageService(store, &stubLLM{})

	_, err := svc.GetHistory(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
