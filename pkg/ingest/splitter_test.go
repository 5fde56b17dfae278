package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 1000, 200)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)

	assert.Len(t, chunks, 3)
	// consecutive chunks share the overlap region
	assert.Equal(t, chunks[0][80:], chunks[1][:20])
	assert.Equal(t, chunks[1][80:], chunks[2][:20])
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("b", 50)
	chunks := SplitText(text, 10, 10)

	// falls back to non-overlapping steps instead of looping forever
	assert.Len(t, chunks, 5)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitTextCoversWholeInput(t *testing.T) {
	text := strings.Repeat("xyz", 700)
	chunks := SplitText(text, 1000, 200)

	assert.True(t, strings.HasPrefix(chunks[0], "xyz"))
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))
}
