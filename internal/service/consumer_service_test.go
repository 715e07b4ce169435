package service

import (
	"context"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestDocumentEndsUpEmbedded(t *testing.T) {
	store := newFakeStore()
	factory := newFakeUowFactory(store)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "document_embed_test"

	consumer := NewConsumerService(pubSub, topic, factory, &fakeEmbedder{}, noopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	docService := NewDocumentService(factory, NewPublisherService(topic, pubSub))

	userId := uuid.New()
	docId := uuid.New()
	res, err := docService.Ingest(context.Background(), userId, &dto.IngestDocumentRequest{
		DocumentId:   docId,
		DocumentType: "email",
		Content:      "Subject: offsite\nThe offsite is moved to Friday.",
		Metadata:     map[string]interface{}{"thread_id": "t-9"},
	})
	require.NoError(t, err)
	assert.True(t, res.Queued)

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.embeddings) > 0
	}, 2*time.Second, 10*time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	first := store.embeddings[0]
	assert.Equal(t, userId, first.UserId)
	assert.Equal(t, docId, first.DocumentId)
	assert.Equal(t, "email", first.DocumentType)
	assert.Equal(t, 0, first.ChunkIndex)
	assert.NotEmpty(t, first.EmbeddingValue)
}

func TestReingestReplacesChunks(t *testing.T) {
	store := newFakeStore()
	factory := newFakeUowFactory(store)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "document_embed_test_replace"

	consumer := NewConsumerService(pubSub, topic, factory, &fakeEmbedder{}, noopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	docService := NewDocumentService(factory, NewPublisherService(topic, pubSub))

	userId := uuid.New()
	docId := uuid.New()

	_, err := docService.Ingest(context.Background(), userId, &dto.IngestDocumentRequest{
		DocumentId:   docId,
		DocumentType: "note",
		Content:      "first version",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.embeddings) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = docService.Ingest(context.Background(), userId, &dto.IngestDocumentRequest{
		DocumentId:   docId,
		DocumentType: "note",
		Content:      "second version",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.embeddings) == 1 && store.embeddings[0].Chunk == "second version"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDeleteOnlyRemovesOwnerChunks(t *testing.T) {
	store := newFakeStore()
	factory := newFakeUowFactory(store)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	docService := NewDocumentService(factory, NewPublisherService("document_embed_test_delete", pubSub))

	// Document ids come from the gateway, so two users can hold chunks
	// under the same document id.
	docId := uuid.New()
	owner := uuid.New()
	other := uuid.New()
	store.embeddings = append(store.embeddings,
		&entity.DocumentEmbedding{Id: uuid.New(), UserId: owner, DocumentId: docId, Chunk: "owner chunk"},
		&entity.DocumentEmbedding{Id: uuid.New(), UserId: other, DocumentId: docId, Chunk: "other chunk"},
	)

	require.NoError(t, docService.Delete(context.Background(), owner, docId))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.embeddings, 1)
	assert.Equal(t, other, store.embeddings[0].UserId)
	assert.Equal(t, "other chunk", store.embeddings[0].Chunk)
}
