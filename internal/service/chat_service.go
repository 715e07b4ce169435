package service

import (
	"context"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/rag"
	"ai-assistant-be/pkg/rag/history"
	"ai-assistant-be/pkg/rag/prompt"
	"ai-assistant-be/pkg/store"

	"github.com/google/uuid"
)

const retrievalTopK = 5

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory         unitofwork.RepositoryFactory
	llmProvider        llm.LLMProvider
	retriever          *rag.Retriever
	historyLoader      *history.Loader
	relevanceThreshold float64
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	retriever *rag.Retriever,
	historyLoader *history.Loader,
	relevanceThreshold float64,
) IChatService {
	return &chatService{
		uowFactory:         uowFactory,
		llmProvider:        llmProvider,
		retriever:          retriever,
		historyLoader:      historyLoader,
		relevanceThreshold: relevanceThreshold,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "New conversation",
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}
	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, &dto.GetAllSessionsResponse{
			Id:            session.Id,
			Title:         session.Title,
			MessageCount:  session.MessageCount,
			LastMessageAt: session.LastMessageAt,
			CreatedAt:     session.CreatedAt,
			UpdatedAt:     session.UpdatedAt,
		})
	}
	return responses, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("Chat session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Metadata:  msg.Metadata,
			CreatedAt: msg.CreatedAt,
		})
	}
	return responses, nil
}

// SendChat answers a question grounded in the user's documents. The user
// message and the assistant reply are committed in one transaction: a
// failed completion leaves the session untouched.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, serverutils.NewValidationError("Message content is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, isNew, err := s.resolveSession(ctx, uow, userId, req.ChatSessionId)
	if err != nil {
		return nil, err
	}

	documents, err := s.retriever.Retrieve(ctx, userId, req.Content, retrievalTopK, s.relevanceThreshold)
	if err != nil {
		return nil, serverutils.NewCollaboratorError("Could not search your documents", err)
	}

	chatHistory, err := s.historyLoader.LoadConversationHistory(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	userPrompt := prompt.NewContextualBuilder(documents, req.Content).Build()
	messages := make([]llm.Message, 0, len(chatHistory)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.AnswerSystemPromptV1})
	messages = append(messages, chatHistory...)
	messages = append(messages, llm.Message{Role: "user", Content: userPrompt})

	reply, err := s.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.4))
	if err != nil {
		return nil, serverutils.NewCollaboratorError("The assistant is unavailable right now", err)
	}

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       req.Content,
		CreatedAt:     now,
	}
	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       reply,
		Metadata:      sourcesMetadata(documents),
		CreatedAt:     now.Add(time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// A fresh session is only persisted once the completion succeeded, so a
	// failed send never leaves an empty conversation behind.
	if isNew {
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, err
	}

	session.MessageCount += 2
	session.LastMessageAt = &now
	if session.Title == "New conversation" {
		session.Title = taskTitle(req.Content)
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	sources := make([]dto.SourceDTO, 0, len(documents))
	for _, doc := range documents {
		docId, err := uuid.Parse(doc.DocumentID)
		if err != nil {
			continue
		}
		sources = append(sources, dto.SourceDTO{
			DocumentId:   docId,
			DocumentType: doc.DocumentType,
			Score:        doc.Score,
		})
	}

	return &dto.SendChatResponse{
		ChatSessionId: session.Id,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Role:      userMessage.Role,
			Content:   userMessage.Content,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Role:      assistantMessage.Role,
			Content:   assistantMessage.Content,
			CreatedAt: assistantMessage.CreatedAt,
		},
		Sources: sources,
	}, nil
}

// resolveSession loads an existing session or builds a new one in memory.
// New sessions are created later, inside the send transaction.
func (s *chatService) resolveSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId *uuid.UUID) (*entity.ChatSession, bool, error) {
	if sessionId == nil {
		session := &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "New conversation",
			IsActive:  true,
			CreatedAt: time.Now(),
		}
		return session, true, nil
	}

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: *sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, false, err
	}
	if session == nil {
		return nil, false, serverutils.NewNotFoundError("Chat session not found")
	}
	return session, false, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return serverutils.NewNotFoundError("Chat session not found")
	}
	return uow.ChatSessionRepository().Delete(ctx, sessionId)
}

// sourcesMetadata records which chunks grounded the reply so the history
// view can show provenance later.
func sourcesMetadata(documents []store.Document) map[string]interface{} {
	if len(documents) == 0 {
		return nil
	}
	sources := make([]map[string]interface{}, 0, len(documents))
	for _, doc := range documents {
		sources = append(sources, map[string]interface{}{
			"document_id":   doc.DocumentID,
			"document_type": doc.DocumentType,
			"score":         doc.Score,
		})
	}
	return map[string]interface{}{"sources": sources}
}
