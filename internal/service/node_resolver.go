package service

import (
	"context"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/repository/unitofwork"
	"synaptiq-be/pkg/mindmap"

	"github.com/google/uuid"
)

// nodeContext is what a chat turn knows about its anchor: the node's
// title and description, plus the serialized tree they came from.
type nodeContext struct {
	Title       string
	Description string
	Tree        string
}

// resolveNode loads the session's mindmap and locates one node in it.
// Chats are only ever anchored to nodes that exist in the stored tree.
func resolveNode(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, nodeId int) (*nodeContext, error) {
	mindmapEntity, err := uow.MindmapRepository().FindBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if mindmapEntity == nil {
		return nil, apperror.NewNotFound("mindmap for session %s not found", sessionId)
	}

	root, err := mindmap.ParseTree(mindmapEntity.Tree)
	if err != nil {
		return nil, err
	}
	title, description, err := mindmap.Resolve(root, nodeId)
	if err != nil {
		return nil, err
	}
	return &nodeContext{Title: title, Description: description, Tree: mindmapEntity.Tree}, nil
}
