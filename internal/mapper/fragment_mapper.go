package mapper

import (
	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type FragmentMapper struct{}

func NewFragmentMapper() *FragmentMapper {
	return &FragmentMapper{}
}

func (m *FragmentMapper) ToEntity(f *model.Fragment) *entity.Fragment {
	if f == nil {
		return nil
	}
	return &entity.Fragment{
		Id:         f.Id,
		Document:   f.Document,
		Embedding:  f.Embedding.Slice(),
		SessionId:  f.SessionId,
		SourceId:   f.SourceId,
		ChunkIndex: f.ChunkIndex,
		CreatedAt:  f.CreatedAt,
	}
}

func (m *FragmentMapper) ToModel(f *entity.Fragment) *model.Fragment {
	if f == nil {
		return nil
	}
	return &model.Fragment{
		Id:         f.Id,
		Document:   f.Document,
		Embedding:  pgvector.NewVector(f.Embedding),
		SessionId:  f.SessionId,
		SourceId:   f.SourceId,
		ChunkIndex: f.ChunkIndex,
		CreatedAt:  f.CreatedAt,
	}
}
