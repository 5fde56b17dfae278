package toolloop

import (
	"context"
	"fmt"

	"synaptiq-be/pkg/llm"
)

// Tool is anything the model can call during a turn.
type Tool interface {
	Spec() llm.ToolSpec
	Invoke(ctx context.Context, args map[string]interface{}) (string, error)
}

// Runner drives a single-round tool loop: one model call that may request
// tools, one batch of tool executions, and one follow-up call whose text
// is the final answer. Tool calls in the follow-up response are discarded.
type Runner struct {
	provider llm.ToolCapableProvider
	tools    map[string]Tool
	specs    []llm.ToolSpec
}

func NewRunner(provider llm.ToolCapableProvider, tools ...Tool) *Runner {
	byName := make(map[string]Tool, len(tools))
	specs := make([]llm.ToolSpec, 0, len(tools))
	for _, tool := range tools {
		spec := tool.Spec()
		byName[spec.Name] = tool
		specs = append(specs, spec)
	}
	return &Runner{
		provider: provider,
		tools:    byName,
		specs:    specs,
	}
}

func (r *Runner) Run(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	response, err := r.provider.ChatWithTools(ctx, history, r.specs, options...)
	if err != nil {
		return "", fmt.Errorf("tool loop initial call failed: %w", err)
	}

	if len(response.ToolCalls) == 0 {
		return response.Text, nil
	}

	followUp := make([]llm.Message, 0, len(history)+1+len(response.ToolCalls))
	followUp = append(followUp, history...)
	followUp = append(followUp, llm.Message{
		Role:      "assistant",
		Content:   response.Text,
		ToolCalls: response.ToolCalls,
	})

	for _, call := range response.ToolCalls {
		followUp = append(followUp, llm.Message{
			Role:       "tool",
			Content:    r.execute(ctx, call),
			ToolCallID: call.ID,
			ToolName:   call.Name,
		})
	}

	final, err := r.provider.ChatWithTools(ctx, followUp, r.specs, options...)
	if err != nil {
		return "", fmt.Errorf("tool loop follow-up call failed: %w", err)
	}

	// Single round only: any further tool calls are ignored.
	return final.Text, nil
}

// execute runs one tool call. Failures are surfaced to the model as the
// tool result so the follow-up can still produce an answer.
func (r *Runner) execute(ctx context.Context, call llm.ToolCall) string {
	tool, ok := r.tools[call.Name]
	if !ok {
		return fmt.Sprintf("tool %q is not available", call.Name)
	}
	result, err := tool.Invoke(ctx, call.Arguments)
	if err != nil {
		return fmt.Sprintf("tool %q failed: %v", call.Name, err)
	}
	return result
}
