package mindmap

import (
	"context"
	"fmt"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/constant"
	"synaptiq-be/pkg/llm"
)

// maxDocumentChars bounds the aggregated source text handed to the model.
const maxDocumentChars = 120_000

// Generator turns aggregated source text into an id-stamped topic tree.
// Pure transform; persisting the result is the caller's responsibility.
type Generator struct {
	llmProvider llm.LLMProvider
}

func NewGenerator(llmProvider llm.LLMProvider) *Generator {
	return &Generator{
		llmProvider: llmProvider,
	}
}

// Generate asks the model for a JSON topic tree over the given document,
// stamps preorder node ids, and returns the root title with the serialized
// tree.
func (g *Generator) Generate(ctx context.Context, document string) (title string, serialized string, err error) {
	if len(document) > maxDocumentChars {
		document = document[:maxDocumentChars]
	}

	history := []llm.Message{
		{
			Role:    constant.MessageRoleSystem,
			Content: fmt.Sprintf(constant.MindmapSystemPrompt, constant.MindmapSchemaSample),
		},
		{
			Role:    constant.MessageRoleUser,
			Content: fmt.Sprintf(constant.MindmapUserPrompt, document),
		},
	}

	raw, err := g.llmProvider.Chat(ctx, history)
	if err != nil {
		return "", "", apperror.NewUpstream("mindmap generation failed", err)
	}

	root, err := ParseTree(raw)
	if err != nil {
		return "", "", err
	}

	AssignNodeIDs(root)

	serialized, err = Serialize(root)
	if err != nil {
		return "", "", err
	}

	return root.Title, serialized, nil
}
