package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTaskService struct {
	mu        sync.Mutex
	created   []createdTask
	executed  []uuid.UUID
	createErr error
}

type createdTask struct {
	userId      uuid.UUID
	instruction string
	priority    int
	context     map[string]interface{}
}

func (s *recordingTaskService) CreateTask(ctx context.Context, userId uuid.UUID, instruction string, priority int, taskContext map[string]interface{}) (*dto.TaskResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, createdTask{userId, instruction, priority, taskContext})
	return &dto.TaskResponse{Id: uuid.New(), Status: constant.TaskStatusPending}, nil
}

func (s *recordingTaskService) ExecuteTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executed = append(s.executed, taskId)
	return &dto.TaskResponse{Id: taskId, Status: constant.TaskStatusCompleted}, nil
}

func (s *recordingTaskService) ResumeTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID, response map[string]interface{}) (*dto.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingTaskService) CancelTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingTaskService) GetTask(ctx context.Context, userId uuid.UUID, taskId uuid.UUID) (*dto.TaskDetailResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingTaskService) ListTasks(ctx context.Context, userId uuid.UUID, req *dto.ListTasksRequest) ([]*dto.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func seedInstruction(store *fakeStore, userId uuid.UUID, text string, priority int) *entity.OngoingInstruction {
	instruction := &entity.OngoingInstruction{
		Id:          uuid.New(),
		UserId:      userId,
		Instruction: text,
		IsActive:    true,
		Priority:    priority,
		CreatedAt:   time.Now(),
	}
	store.instructions[instruction.Id] = instruction
	return instruction
}

func newProactiveForTest(store *fakeStore, tasks ITaskService, threshold float64) IProactiveService {
	return NewProactiveService(newFakeUowFactory(store), memory.NewInstructionCache(), tasks, threshold, noopLogger{})
}

func TestHandleEventNoInstructionsIsSilent(t *testing.T) {
	store := newFakeStore()
	tasks := &recordingTaskService{}
	svc := newProactiveForTest(store, tasks, 0.3)

	svc.HandleEvent(context.Background(), events.NewExternalEvent(constant.EventTypeEmailReceived, uuid.New(), map[string]interface{}{
		"subject": "hello",
	}))

	assert.Empty(t, tasks.created)
	assert.Empty(t, tasks.executed)
}

func TestHandleEventTriggersMatchingInstruction(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	instruction := seedInstruction(store, userId, "whenever an invoice email arrives notify me", constant.PriorityUrgent)

	tasks := &recordingTaskService{}
	svc := newProactiveForTest(store, tasks, 0.2)

	svc.HandleEvent(context.Background(), events.NewExternalEvent(constant.EventTypeEmailReceived, userId, map[string]interface{}{
		"subject": "Invoice #991 arrives today",
		"from":    "billing@vendor.com",
	}))

	require.Len(t, tasks.created, 1)
	created := tasks.created[0]
	assert.Equal(t, userId, created.userId)
	assert.Equal(t, constant.PriorityUrgent, created.priority)
	assert.Equal(t, instruction.Id.String(), created.context["instruction_id"])
	assert.Equal(t, constant.EventTypeEmailReceived, created.context["event_type"])
	require.Len(t, tasks.executed, 1)
}

func TestHandleEventBelowThresholdDoesNotTrigger(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	seedInstruction(store, userId, "whenever an invoice email arrives notify me", constant.PriorityNormal)

	tasks := &recordingTaskService{}
	svc := newProactiveForTest(store, tasks, 0.99)

	svc.HandleEvent(context.Background(), events.NewExternalEvent(constant.EventTypeCalendarCreated, userId, map[string]interface{}{
		"title": "dentist",
	}))

	assert.Empty(t, tasks.created)
}

func TestHandleEventIgnoresInactiveInstructions(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	instruction := seedInstruction(store, userId, "whenever an invoice email arrives notify me", constant.PriorityNormal)
	instruction.IsActive = false

	tasks := &recordingTaskService{}
	svc := newProactiveForTest(store, tasks, 0.1)

	svc.HandleEvent(context.Background(), events.NewExternalEvent(constant.EventTypeEmailReceived, userId, map[string]interface{}{
		"subject": "Invoice arrives",
	}))

	assert.Empty(t, tasks.created)
}

func TestHandleEventSwallowsTaskCreationFailure(t *testing.T) {
	store := newFakeStore()
	userId := uuid.New()
	seedInstruction(store, userId, "whenever an invoice email arrives notify me", constant.PriorityNormal)

	tasks := &recordingTaskService{createErr: errors.New("planner offline")}
	svc := newProactiveForTest(store, tasks, 0.1)

	// must not panic or propagate
	svc.HandleEvent(context.Background(), events.NewExternalEvent(constant.EventTypeEmailReceived, userId, map[string]interface{}{
		"subject": "Invoice arrives",
	}))

	assert.Empty(t, tasks.executed)
}

func TestHandleEventScopedToEventUser(t *testing.T) {
	store := newFakeStore()
	owner := uuid.New()
	seedInstruction(store, owner, "whenever an invoice email arrives notify me", constant.PriorityNormal)

	tasks := &recordingTaskService{}
	svc := newProactiveForTest(store, tasks, 0.1)

	svc.HandleEvent(context.Background(), events.NewExternalEvent(constant.EventTypeEmailReceived, uuid.New(), map[string]interface{}{
		"subject": "Invoice arrives",
	}))

	assert.Empty(t, tasks.created)
}
