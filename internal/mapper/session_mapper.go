package mapper

import (
	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SessionMapper) SourceToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}
	return &entity.Source{
		Id:        s.Id,
		Title:     s.Title,
		Type:      s.Type,
		URL:       s.URL,
		SessionId: s.SessionId,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SessionMapper) SourceToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}
	return &model.Source{
		Id:        s.Id,
		Title:     s.Title,
		Type:      s.Type,
		URL:       s.URL,
		SessionId: s.SessionId,
		CreatedAt: s.CreatedAt,
	}
}

func (m *SessionMapper) MindmapToEntity(mm *model.Mindmap) *entity.Mindmap {
	if mm == nil {
		return nil
	}
	return &entity.Mindmap{
		Id:            mm.Id,
		SessionId:     mm.SessionId,
		Tree:          string(mm.Tree),
		SchemaVersion: mm.SchemaVersion,
		CreatedAt:     mm.CreatedAt,
	}
}

func (m *SessionMapper) MindmapToModel(mm *entity.Mindmap) *model.Mindmap {
	if mm == nil {
		return nil
	}
	return &model.Mindmap{
		Id:            mm.Id,
		SessionId:     mm.SessionId,
		Tree:          datatypes.JSON(mm.Tree),
		SchemaVersion: mm.SchemaVersion,
		CreatedAt:     mm.CreatedAt,
	}
}

func (m *SessionMapper) FileToEntity(f *model.File) *entity.File {
	if f == nil {
		return nil
	}
	return &entity.File{
		Id:           f.Id,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		Size:         f.Size,
		CreatedAt:    f.CreatedAt,
	}
}

func (m *SessionMapper) FileToModel(f *entity.File) *model.File {
	if f == nil {
		return nil
	}
	return &model.File{
		Id:           f.Id,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		Size:         f.Size,
		CreatedAt:    f.CreatedAt,
	}
}
