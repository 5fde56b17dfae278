package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	NodeId    int       `json:"node_id" validate:"required,min=1"`
	Type      string    `json:"type" validate:"required,oneof=normal quiz deepdive"`
}

type CreateChatResponse struct {
	Id       uuid.UUID         `json:"id"`
	Type     string            `json:"type"`
	NodeId   int               `json:"node_id"`
	Messages []MessageResponse `json:"messages,omitempty"`
}

type GetChatsResponse struct {
	Id          uuid.UUID        `json:"id"`
	SessionId   uuid.UUID        `json:"session_id"`
	NodeId      int              `json:"node_id"`
	Type        string           `json:"type"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type DeleteChatResponse struct {
	Id uuid.UUID `json:"id"`
}

type SendMessageRequest struct {
	ChatId  uuid.UUID `json:"chat_id" validate:"required"`
	Content string    `json:"content" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageResponse struct {
	ChatId uuid.UUID        `json:"chat_id"`
	Sent   *MessageResponse `json:"sent"`
	Reply  *MessageResponse `json:"reply"`
}
