package history

import (
	"context"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 10

// Loader turns stored chat messages into LLM conversation history.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// LoadConversationHistory returns the most recent messages of a session in
// chronological order, ready to prepend to an LLM call.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	recent, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: defaultHistoryLimit},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		msg := recent[i]

		role := constant.ChatMessageRoleUser
		if msg.Role == constant.ChatMessageRoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: msg.Content,
		})
	}

	return messages, nil
}
