package orchestrator

import (
	"context"
	"fmt"

	"synaptiq-be/internal/constant"
	"synaptiq-be/pkg/llm"
	"synaptiq-be/pkg/rag/prompt"
	"synaptiq-be/pkg/rag/retriever"
	"synaptiq-be/pkg/rag/toolloop"

	"github.com/google/uuid"
)

// TurnInput carries everything one chat turn needs. Mindmap is the
// session's serialized tree, handed to the prompt as grounding context.
// History holds the prior user and assistant messages in order;
// UserMessage is the new one.
type TurnInput struct {
	SessionId       uuid.UUID
	ChatType        constant.ChatType
	NodeTitle       string
	NodeDescription string
	Mindmap         string
	History         []llm.Message
	UserMessage     string
}

// Orchestrator runs one chat turn end to end: retrieve context for the
// node, build the mode prompt, and call the model. Deepdive turns go
// through the tool loop so the model can reach for web search.
type Orchestrator struct {
	llmProvider llm.ToolCapableProvider
	retriever   *retriever.Retriever
	tools       []toolloop.Tool
}

func New(llmProvider llm.ToolCapableProvider, ret *retriever.Retriever, tools ...toolloop.Tool) *Orchestrator {
	return &Orchestrator{
		llmProvider: llmProvider,
		retriever:   ret,
		tools:       tools,
	}
}

func (o *Orchestrator) RunTurn(ctx context.Context, input TurnInput) (string, error) {
	query := input.NodeTitle + " " + input.NodeDescription
	documents, err := o.retriever.Retrieve(ctx, input.SessionId, query)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve context: %w", err)
	}

	systemPrompt, err := prompt.NewBuilder(input.ChatType, input.NodeTitle, input.NodeDescription, input.Mindmap, retriever.Join(documents)).Build()
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(input.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, input.History...)
	messages = append(messages, llm.Message{Role: "user", Content: input.UserMessage})

	if input.ChatType == constant.ChatTypeDeepdive {
		return toolloop.NewRunner(o.llmProvider, o.tools...).Run(ctx, messages)
	}
	return o.llmProvider.Chat(ctx, messages)
}
