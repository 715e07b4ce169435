package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/rag"
	"ai-assistant-be/pkg/rag/history"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServiceForTest(store *fakeStore, model *fakeLLM, embedder *fakeEmbedder) IChatService {
	factory := newFakeUowFactory(store)
	if embedder == nil {
		embedder = &fakeEmbedder{}
	}
	return NewChatService(
		factory,
		model,
		rag.NewRetriever(factory, embedder),
		history.NewLoader(factory),
		0.3,
	)
}

func seedEmbedding(store *fakeStore, userId uuid.UUID, docType, chunk string, vec []float32) {
	store.embeddings = append(store.embeddings, &entity.DocumentEmbedding{
		Id:             uuid.New(),
		UserId:         userId,
		DocumentType:   docType,
		DocumentId:     uuid.New(),
		Chunk:          chunk,
		EmbeddingValue: vec,
		CreatedAt:      time.Now(),
	})
}

func TestSendChatPersistsMessagePair(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()

	svc := newChatServiceForTest(store, &fakeLLM{}, nil)

	res, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{Content: "what is on my calendar?"})
	require.NoError(t, err)
	require.NotNil(t, res.Sent)
	require.NotNil(t, res.Reply)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Sent.Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, res.Reply.Role)

	assert.Len(t, store.messages, 2)
	session := store.sessions[res.ChatSessionId]
	require.NotNil(t, session)
	assert.Equal(t, 2, session.MessageCount)
	assert.NotNil(t, session.LastMessageAt)
}

func TestSendChatLLMFailurePersistsNothing(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()

	failing := &fakeLLM{chatFn: func(_ []llm.Message) (string, error) {
		return "", errors.New("rate limited")
	}}
	svc := newChatServiceForTest(store, failing, nil)

	res, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{Content: "hello"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Empty(t, store.messages)
	assert.Empty(t, store.sessions, "a failed first send must not leave an empty session")
}

func TestSendChatPersistFailureRollsBackPair(t *testing.T) {
	store := newFakeStore()
	store.failMessageCreateAfter = 2 // second insert of the pair fails
	userId := uuid.New()

	svc := newChatServiceForTest(store, &fakeLLM{}, nil)

	_, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{Content: "hello"})
	require.Error(t, err)
	assert.Empty(t, store.messages, "a partial pair must never survive")
	assert.Empty(t, store.sessions, "the new session rolls back with its pair")
}

func TestSendChatGroundsReplyInOwnDocumentsOnly(t *testing.T) {
	store := newFakeStore()
	userA := uuid.New()
	userB := uuid.New()

	matching := []float32{1, 0, 0}
	seedEmbedding(store, userA, constant.DocumentTypeEmail, "offsite moved to Friday", matching)
	seedEmbedding(store, userB, constant.DocumentTypeEmail, "userB secret email", matching)

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"when is the offsite?": matching,
	}}
	var captured string
	model := &fakeLLM{}
	svc := newChatServiceForTest(store, model, embedder)

	res, err := svc.SendChat(context.Background(), userA, &dto.SendChatRequest{Content: "when is the offsite?"})
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)

	require.NotEmpty(t, model.histories)
	for _, msg := range model.histories[0] {
		captured += msg.Content
	}
	assert.Contains(t, captured, "offsite moved to Friday")
	assert.NotContains(t, captured, "userB secret email")
}

func TestSendChatUnknownSessionNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newChatServiceForTest(store, &fakeLLM{}, nil)

	missing := uuid.New()
	_, err := svc.SendChat(context.Background(), uuid.New(), &dto.SendChatRequest{
		ChatSessionId: &missing,
		Content:       "hello",
	})
	require.Error(t, err)
}

func TestSendChatIncludesSessionHistory(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()

	svc := newChatServiceForTest(store, &fakeLLM{}, nil)
	first, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{Content: "remember the number 42"})
	require.NoError(t, err)

	model := &fakeLLM{}
	svc = newChatServiceForTest(store, model, nil)
	_, err = svc.SendChat(context.Background(), userId, &dto.SendChatRequest{
		ChatSessionId: &first.ChatSessionId,
		Content:       "what number did I mention?",
	})
	require.NoError(t, err)

	require.NotEmpty(t, model.histories)
	var joined string
	for _, msg := range model.histories[0] {
		joined += msg.Content + "\n"
	}
	assert.Contains(t, joined, "remember the number 42")
}

func TestCreateAndListSessions(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	svc := newChatServiceForTest(store, &fakeLLM{}, nil)

	created, err := svc.CreateSession(context.Background(), userId)
	require.NoError(t, err)

	sessions, err := svc.GetAllSessions(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, created.Id, sessions[0].Id)

	other, err := svc.GetAllSessions(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
