package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"synaptiq-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.ApiKey)
		assert.Equal(t, defaultMaxResults, req.MaxResults)

		json.NewEncoder(w).Encode(searchResponse{
			Results: []searchResult{
				{Title: "Result One", URL: "https://one.example", Content: "first content"},
				{Title: "Result Two", URL: "https://two.example", Content: "second content"},
			},
		})
	}))
}

func TestSearch(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	defer server.Close()

	client := NewTavilyClientWithBaseURL("test-key", server.URL)
	out, err := client.Search(context.Background(), "photosynthesis")
	require.NoError(t, err)

	assert.Contains(t, out, "Result One")
	assert.Contains(t, out, "https://one.example")
	assert.Contains(t, out, "first content")
	assert.Contains(t, out, "Result Two")
}

func TestSearchUsesCache(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	defer server.Close()

	client := NewTavilyClientWithBaseURL("test-key", server.URL)

	first, err := client.Search(context.Background(), "same query")
	require.NoError(t, err)
	second, err := client.Search(context.Background(), "same query")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// a different query misses the cache
	_, err = client.Search(context.Background(), "other query")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTavilyClientWithBaseURL("test-key", server.URL)
	_, err := client.Search(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, apperror.IsUpstream(err))
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client := NewTavilyClientWithBaseURL("test-key", server.URL)
	out, err := client.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "No results found.", out)
}

func TestInvoke(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	defer server.Close()

	client := NewTavilyClientWithBaseURL("test-key", server.URL)

	out, err := client.Invoke(context.Background(), map[string]interface{}{"query": "anything"})
	require.NoError(t, err)
	assert.Contains(t, out, "Result One")

	_, err = client.Invoke(context.Background(), map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = client.Invoke(context.Background(), map[string]interface{}{"query": "   "})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestSpec(t *testing.T) {
	spec := NewTavilyClient("k").Spec()
	assert.Equal(t, ToolName, spec.Name)
	assert.NotEmpty(t, spec.Description)
	assert.Equal(t, "object", spec.Parameters["type"])
}
