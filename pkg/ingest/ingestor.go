package ingest

import (
	"context"
	"fmt"
	"strings"

	"synaptiq-be/pkg/embedding"
)

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Chunk is one embedded slice of a source document, ready to persist.
type Chunk struct {
	Index     int
	Document  string
	Embedding []float32
}

// Ingestor splits source text into overlapping chunks and embeds each one.
type Ingestor struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkSize         int
	overlap           int
}

func NewIngestor(embeddingProvider embedding.EmbeddingProvider) *Ingestor {
	return &Ingestor{
		embeddingProvider: embeddingProvider,
		chunkSize:         DefaultChunkSize,
		overlap:           DefaultOverlap,
	}
}

func (i *Ingestor) Ingest(ctx context.Context, text string) ([]Chunk, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	pieces := SplitText(trimmed, i.chunkSize, i.overlap)
	chunks := make([]Chunk, 0, len(pieces))
	for idx, piece := range pieces {
		vector, err := i.embeddingProvider.Generate(ctx, piece, embedding.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", idx, err)
		}
		chunks = append(chunks, Chunk{
			Index:     idx,
			Document:  piece,
			Embedding: vector,
		})
	}
	return chunks, nil
}
