package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL    = "https://api.tavily.com"
	defaultMaxResults = 5

	// ToolName is how the model addresses web search in a tool call.
	ToolName = "web_search"
)

// TavilyClient wraps the Tavily search API. Results are cached by query
// for a short TTL so a model repeating itself within a turn is free.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
	cache      *cache.Cache
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		maxResults: defaultMaxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      cache.New(10*time.Minute, 5*time.Minute),
	}
}

func NewTavilyClientWithBaseURL(apiKey, baseURL string) *TavilyClient {
	c := NewTavilyClient(apiKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type searchRequest struct {
	ApiKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// Search runs one query and formats the hits as a plain text block.
func (c *TavilyClient) Search(ctx context.Context, query string) (string, error) {
	if cached, found := c.cache.Get(query); found {
		return cached.(string), nil
	}

	payload, err := json.Marshal(searchRequest{
		ApiKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.NewUpstream("web search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperror.NewUpstream(fmt.Sprintf("web search returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperror.NewUpstream("failed to decode web search response", err)
	}

	formatted := formatResults(parsed.Results)
	c.cache.Set(query, formatted, cache.DefaultExpiration)
	return formatted, nil
}

func formatResults(results []searchResult) string {
	if len(results) == 0 {
		return "No results found."
	}
	var out strings.Builder
	for i, result := range results {
		if i > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(result.Title)
		out.WriteString("\n")
		out.WriteString(result.URL)
		out.WriteString("\n")
		out.WriteString(result.Content)
	}
	return out.String()
}

// Spec declares the search tool to the model.
func (c *TavilyClient) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        ToolName,
		Description: "Search the web for current information on a topic. Use when the provided context is not enough to answer.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Invoke satisfies the tool contract used by the chat tool loop.
func (c *TavilyClient) Invoke(ctx context.Context, args map[string]interface{}) (string, error) {
	query, ok := args["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", apperror.NewValidation("web_search requires a non-empty query argument")
	}
	return c.Search(ctx, query)
}
