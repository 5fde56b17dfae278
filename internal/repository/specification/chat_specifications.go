package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

type ByNodeID struct {
	NodeID int
}

func (s ByNodeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("node_id = ?", s.NodeID)
}

type ByChatType struct {
	Type string
}

func (s ByChatType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}
