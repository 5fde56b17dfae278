package unitofwork

import (
	"context"

	"synaptiq-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	SourceRepository() contract.SourceRepository
	MindmapRepository() contract.MindmapRepository
	FragmentRepository() contract.FragmentRepository

	ChatRepository() contract.ChatRepository
	MessageRepository() contract.MessageRepository
	FileRepository() contract.FileRepository
}
