package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/lock"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// fakeStore is a shared in-memory backing store for the fake repositories.
// Specifications are interpreted by type switch; only the ones the services
// actually use are supported.
type fakeStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*entity.User
	tasks        map[uuid.UUID]*entity.Task
	taskLogs     []*entity.TaskLog
	instructions map[uuid.UUID]*entity.OngoingInstruction
	embeddings   []*entity.DocumentEmbedding
	sessions     map[uuid.UUID]*entity.ChatSession
	messages     []*entity.ChatMessage

	failMessageCreateAfter int // fail the Nth message Create (1-based); 0 disables
	messageCreates         int

	// transaction snapshot
	inTx            bool
	messagesSnap    []*entity.ChatMessage
	sessionsSnap    map[uuid.UUID]*entity.ChatSession
	embeddingsSnap  []*entity.DocumentEmbedding
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uuid.UUID]*entity.User),
		tasks:        make(map[uuid.UUID]*entity.Task),
		instructions: make(map[uuid.UUID]*entity.OngoingInstruction),
		sessions:     make(map[uuid.UUID]*entity.ChatSession),
	}
}

type fakeUowFactory struct {
	store *fakeStore
}

func newFakeUowFactory(store *fakeStore) unitofwork.RepositoryFactory {
	return &fakeUowFactory{store: store}
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.inTx = true
	u.store.messagesSnap = append([]*entity.ChatMessage(nil), u.store.messages...)
	u.store.embeddingsSnap = append([]*entity.DocumentEmbedding(nil), u.store.embeddings...)
	u.store.sessionsSnap = make(map[uuid.UUID]*entity.ChatSession, len(u.store.sessions))
	for id, s := range u.store.sessions {
		copied := *s
		u.store.sessionsSnap[id] = &copied
	}
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.store.inTx = false
	u.store.messagesSnap = nil
	u.store.sessionsSnap = nil
	u.store.embeddingsSnap = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if !u.store.inTx {
		return nil
	}
	u.store.inTx = false
	u.store.messages = u.store.messagesSnap
	u.store.embeddings = u.store.embeddingsSnap
	u.store.sessions = u.store.sessionsSnap
	u.store.messagesSnap = nil
	u.store.sessionsSnap = nil
	u.store.embeddingsSnap = nil
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUnitOfWork) TaskRepository() contract.TaskRepository {
	return &fakeTaskRepo{store: u.store}
}

func (u *fakeUnitOfWork) TaskLogRepository() contract.TaskLogRepository {
	return &fakeTaskLogRepo{store: u.store}
}

func (u *fakeUnitOfWork) OngoingInstructionRepository() contract.OngoingInstructionRepository {
	return &fakeInstructionRepo{store: u.store}
}

func (u *fakeUnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return &fakeEmbeddingRepo{store: u.store}
}

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}

// --- users ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *user
	r.store.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, user := range r.store.users {
		if user.IsDeleted {
			continue
		}
		if matchUser(user, specs) {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchUser(user *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if user.Id != sp.ID {
				return false
			}
		case specification.ByEmail:
			if user.Email != sp.Email {
				return false
			}
		}
	}
	return true
}

// --- tasks ---

type fakeTaskRepo struct {
	store *fakeStore
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *entity.Task) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *task
	r.store.tasks[task.Id] = &copied
	return nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *entity.Task) error {
	return r.Create(ctx, task)
}

func (r *fakeTaskRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Task
	for _, task := range r.store.tasks {
		if matchTask(task, specs) {
			copied := *task
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeTaskRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchTask(task *entity.Task, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if task.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if task.UserId != sp.UserID {
				return false
			}
		case specification.ByStatus:
			if task.Status != sp.Status {
				return false
			}
		}
	}
	return true
}

// --- task logs ---

type fakeTaskLogRepo struct {
	store *fakeStore
}

func (r *fakeTaskLogRepo) Create(ctx context.Context, log *entity.TaskLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *log
	r.store.taskLogs = append(r.store.taskLogs, &copied)
	return nil
}

func (r *fakeTaskLogRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TaskLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.TaskLog
	for _, log := range r.store.taskLogs {
		match := true
		for _, s := range specs {
			if sp, ok := s.(specification.ByTaskID); ok && log.TaskId != sp.TaskID {
				match = false
			}
		}
		if match {
			copied := *log
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTaskLogRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

// --- ongoing instructions ---

type fakeInstructionRepo struct {
	store *fakeStore
}

func (r *fakeInstructionRepo) Create(ctx context.Context, instruction *entity.OngoingInstruction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *instruction
	r.store.instructions[instruction.Id] = &copied
	return nil
}

func (r *fakeInstructionRepo) Update(ctx context.Context, instruction *entity.OngoingInstruction) error {
	return r.Create(ctx, instruction)
}

func (r *fakeInstructionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.OngoingInstruction, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeInstructionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.OngoingInstruction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.OngoingInstruction
	for _, instruction := range r.store.instructions {
		if instruction.IsDeleted {
			continue
		}
		if matchInstruction(instruction, specs) {
			copied := *instruction
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeInstructionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchInstruction(instruction *entity.OngoingInstruction, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if instruction.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if instruction.UserId != sp.UserID {
				return false
			}
		case specification.ActiveOnly:
			if !instruction.IsActive {
				return false
			}
		}
	}
	return true
}

// --- document embeddings ---

type fakeEmbeddingRepo struct {
	store *fakeStore
}

func (r *fakeEmbeddingRepo) Create(ctx context.Context, e *entity.DocumentEmbedding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *e
	r.store.embeddings = append(r.store.embeddings, &copied)
	return nil
}

func (r *fakeEmbeddingRepo) CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error {
	for _, e := range embeddings {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByDocumentId(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.embeddings[:0]
	for _, e := range r.store.embeddings {
		if e.UserId != userId || e.DocumentId != documentId {
			kept = append(kept, e)
		}
	}
	r.store.embeddings = kept
	return nil
}

func (r *fakeEmbeddingRepo) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.embeddings[:0]
	for _, e := range r.store.embeddings {
		if e.UserId != userId {
			kept = append(kept, e)
		}
	}
	r.store.embeddings = kept
	return nil
}

func (r *fakeEmbeddingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentEmbedding, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.DocumentEmbedding
	for _, e := range r.store.embeddings {
		if matchEmbedding(e, specs) {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchEmbedding(e *entity.DocumentEmbedding, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByDocumentID:
			if e.DocumentId != sp.DocumentID {
				return false
			}
		case specification.UserOwnedBy:
			if e.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, query []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredDocumentEmbedding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var scored []*contract.ScoredDocumentEmbedding
	for _, e := range r.store.embeddings {
		if e.UserId != userId {
			continue
		}
		sim := cosineSimilarity(query, e.EmbeddingValue)
		if sim < threshold {
			continue
		}
		copied := *e
		scored = append(scored, &contract.ScoredDocumentEmbedding{Embedding: &copied, Similarity: sim})
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// --- chat sessions ---

type fakeSessionRepo struct {
	store *fakeStore
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	return r.Create(ctx, session)
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session, ok := r.store.sessions[id]; ok {
		session.IsDeleted = true
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatSession
	for _, session := range r.store.sessions {
		if session.IsDeleted {
			continue
		}
		if matchSession(session, specs) {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchSession(session *entity.ChatSession, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if session.Id != sp.ID {
				return false
			}
		case specification.UserOwnedBy:
			if session.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

// --- chat messages ---

type fakeMessageRepo struct {
	store *fakeStore
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.messageCreates++
	if r.store.failMessageCreateAfter > 0 && r.store.messageCreates >= r.store.failMessageCreateAfter {
		return errors.New("insert failed")
	}
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatMessage
	for _, message := range r.store.messages {
		match := true
		for _, s := range specs {
			if sp, ok := s.(specification.ByChatSessionID); ok && message.ChatSessionId != sp.ChatSessionID {
				match = false
			}
		}
		if match {
			copied := *message
			out = append(out, &copied)
		}
	}
	desc := false
	for _, s := range specs {
		if sp, ok := s.(specification.OrderBy); ok {
			desc = sp.Desc
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	for _, s := range specs {
		if sp, ok := s.(specification.Pagination); ok && sp.Limit > 0 && len(out) > sp.Limit {
			out = out[:sp.Limit]
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

// --- collaborator fakes ---

type fakeLLM struct {
	mu         sync.Mutex
	generateFn func(prompt string) (string, error)
	chatFn     func(history []llm.Message) (string, error)
	prompts    []string
	histories  [][]llm.Message
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.generateFn != nil {
		return f.generateFn(prompt)
	}
	return "[]", nil
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	f.histories = append(f.histories, history)
	f.mu.Unlock()
	if f.chatFn != nil {
		return f.chatFn(history)
	}
	return "stub reply", nil
}

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	vec, ok := f.vectors[text]
	if !ok {
		vec = []float32{1, 0, 0}
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

type fakeTaskLock struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

func newFakeTaskLock() *fakeTaskLock {
	return &fakeTaskLock{held: make(map[uuid.UUID]bool)}
}

func (l *fakeTaskLock) Acquire(ctx context.Context, taskId uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[taskId] {
		return lock.ErrAlreadyLocked
	}
	l.held[taskId] = true
	return nil
}

func (l *fakeTaskLock) Release(ctx context.Context, taskId uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, taskId)
	return nil
}

type fakePusher struct {
	mu       sync.Mutex
	messages []string
}

func (p *fakePusher) Push(userId uuid.UUID, message string, metadata map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = noopLogger{}
