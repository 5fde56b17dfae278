package dto

import (
	"time"

	"github.com/google/uuid"
)

// SourceInput describes one learning source to ingest into a session.
// Exactly one of URL or FileId is used depending on Type.
type SourceInput struct {
	Type   string     `json:"type" validate:"required,oneof=youtube pdf web_page"`
	URL    string     `json:"url,omitempty" validate:"omitempty,url"`
	FileId *uuid.UUID `json:"file_id,omitempty"`
}

type CreateSessionRequest struct {
	Sources []SourceInput `json:"sources" validate:"required,min=1,max=10,dive"`
}

type CreateSessionResponse struct {
	Id      uuid.UUID       `json:"id"`
	Title   string          `json:"title"`
	Mindmap MindmapResponse `json:"mindmap"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type SourceResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MindmapResponse struct {
	Id            uuid.UUID   `json:"id"`
	Tree          interface{} `json:"tree"`
	SchemaVersion string      `json:"schema_version"`
	CreatedAt     time.Time   `json:"created_at"`
}

type ShowSessionResponse struct {
	Id        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Sources   []SourceResponse `json:"sources"`
	Mindmap   *MindmapResponse `json:"mindmap,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type DeleteSessionResponse struct {
	Id uuid.UUID `json:"id"`
}
