package rag

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// Retriever embeds a query and pulls the nearest document chunks for one
// user. Results never cross user boundaries: the vector search itself is
// scoped by user_id, not filtered afterwards.
type Retriever struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
}

func NewRetriever(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider) *Retriever {
	return &Retriever{
		uowFactory: uowFactory,
		embedder:   embedder,
	}
}

// Retrieve returns up to limit chunks for the user ordered by descending
// similarity. Chunks below threshold are excluded. An empty result is not an
// error.
func (r *Retriever) Retrieve(ctx context.Context, userId uuid.UUID, query string, limit int, threshold float64) ([]store.Document, error) {
	resp, err := r.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(
		ctx, resp.Embedding.Values, limit, userId, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	documents := make([]store.Document, 0, len(scored))
	for _, s := range scored {
		documents = append(documents, store.Document{
			ID:           s.Embedding.Id.String(),
			DocumentID:   s.Embedding.DocumentId.String(),
			DocumentType: s.Embedding.DocumentType,
			Content:      s.Embedding.Chunk,
			Score:        s.Similarity,
			ChunkIndex:   s.Embedding.ChunkIndex,
			Metadata:     s.Embedding.Metadata,
		})
	}
	return documents, nil
}
