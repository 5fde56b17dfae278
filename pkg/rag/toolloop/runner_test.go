package toolloop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"synaptiq-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	responses []*llm.ToolResponse
	errs      []error
	calls     [][]llm.Message
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, options ...llm.Option) (*llm.ToolResponse, error) {
	i := len(s.calls)
	s.calls = append(s.calls, history)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.responses[i], nil
}

type recordingTool struct {
	name    string
	result  string
	err     error
	queries []string
}

func (r *recordingTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        r.name,
		Description: "test tool",
		Parameters:  map[string]interface{}{"type": "object"},
	}
}

func (r *recordingTool) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	query, _ := args["query"].(string)
	r.queries = append(r.queries, query)
	return r.result, r.err
}

func TestRunNoToolCalls(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.ToolResponse{{Text: "direct answer"}},
	}
	tool := &recordingTool{name: "web_search", result: "irrelevant"}

	out, err := NewRunner(provider, tool).Run(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "direct answer", out)
	assert.Len(t, provider.calls, 1)
	assert.Empty(t, tool.queries)
}

func TestRunSingleRound(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.ToolResponse{
			{
				ToolCalls: []llm.ToolCall{
					{ID: "web_search-0", Name: "web_search", Arguments: map[string]interface{}{"query": "first"}},
					{ID: "web_search-1", Name: "web_search", Arguments: map[string]interface{}{"query": "second"}},
					{ID: "web_search-2", Name: "web_search", Arguments: map[string]interface{}{"query": "third"}},
				},
			},
			{Text: "final answer"},
		},
	}
	tool := &recordingTool{name: "web_search", result: "search result"}

	out, err := NewRunner(provider, tool).Run(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "final answer", out)

	// k tool calls mean k executions and exactly one follow-up call.
	assert.Equal(t, []string{"first", "second", "third"}, tool.queries)
	require.Len(t, provider.calls, 2)

	followUp := provider.calls[1]
	// original user message, the assistant's call request, then one tool
	// result per call.
	require.Len(t, followUp, 5)
	assert.Equal(t, "assistant", followUp[1].Role)
	require.Len(t, followUp[1].ToolCalls, 3)
	for i := 2; i < 5; i++ {
		assert.Equal(t, "tool", followUp[i].Role)
		assert.Equal(t, "search result", followUp[i].Content)
		assert.Equal(t, fmt.Sprintf("web_search-%d", i-2), followUp[i].ToolCallID)
	}
}

func TestRunDiscardsSecondRoundToolCalls(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.ToolResponse{
			{ToolCalls: []llm.ToolCall{{ID: "web_search-0", Name: "web_search", Arguments: map[string]interface{}{"query": "q"}}}},
			{
				Text:      "answer with leftover calls",
				ToolCalls: []llm.ToolCall{{ID: "web_search-0", Name: "web_search", Arguments: map[string]interface{}{"query": "again"}}},
			},
		},
	}
	tool := &recordingTool{name: "web_search", result: "r"}

	out, err := NewRunner(provider, tool).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "answer with leftover calls", out)

	// The second round's tool calls never execute.
	assert.Equal(t, []string{"q"}, tool.queries)
	assert.Len(t, provider.calls, 2)
}

func TestRunToolFailureFeedsModel(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.ToolResponse{
			{ToolCalls: []llm.ToolCall{{ID: "web_search-0", Name: "web_search", Arguments: map[string]interface{}{"query": "q"}}}},
			{Text: "answer despite failure"},
		},
	}
	tool := &recordingTool{name: "web_search", err: errors.New("rate limited")}

	out, err := NewRunner(provider, tool).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "answer despite failure", out)

	followUp := provider.calls[1]
	assert.Contains(t, followUp[len(followUp)-1].Content, "rate limited")
}

func TestRunUnknownTool(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.ToolResponse{
			{ToolCalls: []llm.ToolCall{{ID: "x-0", Name: "missing_tool", Arguments: nil}}},
			{Text: "ok"},
		},
	}

	out, err := NewRunner(provider).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	followUp := provider.calls[1]
	assert.Contains(t, followUp[len(followUp)-1].Content, "not available")
}

func TestRunInitialCallError(t *testing.T) {
	provider := &scriptedProvider{
		responses: []*llm.ToolResponse{nil},
		errs:      []error{errors.New("boom")},
	}

	_, err := NewRunner(provider).Run(context.Background(), nil)
	require.Error(t, err)
}
