package retriever

import (
	"context"
	"fmt"
	"strings"

	"synaptiq-be/internal/repository/contract"
	"synaptiq-be/pkg/embedding"

	"github.com/google/uuid"
)

// DefaultTopK is how many fragments a retrieval pulls in per turn.
const DefaultTopK = 4

// Retriever embeds a query and pulls the nearest fragments of a session.
type Retriever struct {
	embeddingProvider  embedding.EmbeddingProvider
	fragmentRepository contract.FragmentRepository
	topK               int
}

func New(embeddingProvider embedding.EmbeddingProvider, fragmentRepository contract.FragmentRepository) *Retriever {
	return &Retriever{
		embeddingProvider:  embeddingProvider,
		fragmentRepository: fragmentRepository,
		topK:               DefaultTopK,
	}
}

func NewWithTopK(embeddingProvider embedding.EmbeddingProvider, fragmentRepository contract.FragmentRepository, topK int) *Retriever {
	r := New(embeddingProvider, fragmentRepository)
	if topK > 0 {
		r.topK = topK
	}
	return r
}

// Retrieve returns the documents of the fragments closest to the query,
// best match first. An empty result is not an error: a session with no
// fragments simply yields no grounding context.
func (r *Retriever) Retrieve(ctx context.Context, sessionId uuid.UUID, query string) ([]string, error) {
	queryEmbedding, err := r.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed retrieval query: %w", err)
	}

	fragments, err := r.fragmentRepository.SearchSimilar(ctx, queryEmbedding, r.topK, sessionId)
	if err != nil {
		return nil, fmt.Errorf("failed to search fragments: %w", err)
	}

	documents := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		documents = append(documents, fragment.Document)
	}
	return documents, nil
}

// Join flattens retrieved documents into a single context block.
func Join(documents []string) string {
	return strings.Join(documents, "\n")
}
